package repository

import (
	"context"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/syncer"
)

// GetExhibitions returns the exhibitions list. It never fails; without
// any stored data the built-in exhibitions are returned.
func (r *MuseumRepo) GetExhibitions(ctx context.Context) []model.Exhibition {
	return syncer.Get(ctx, r.engine, exhibitions)
}

// SaveExhibition creates or replaces an exhibition.
func (r *MuseumRepo) SaveExhibition(ctx context.Context, ex model.Exhibition) error {
	return syncer.Upsert(ctx, r.engine, exhibitions, ex)
}

// GetArtworks returns the permanent collection.
func (r *MuseumRepo) GetArtworks(ctx context.Context) []model.Artwork {
	return syncer.Get(ctx, r.engine, artworks)
}

// GetCollectables returns the shop catalogue.
func (r *MuseumRepo) GetCollectables(ctx context.Context) []model.Collectable {
	return syncer.Get(ctx, r.engine, collectables)
}

// SaveCollectable creates or replaces a shop item. New items are listed
// first.
func (r *MuseumRepo) SaveCollectable(ctx context.Context, c model.Collectable) error {
	return syncer.Upsert(ctx, r.engine, collectables, c)
}

// DeleteCollectable removes a shop item. Deleting an unknown id is not
// an error.
func (r *MuseumRepo) DeleteCollectable(ctx context.Context, id string) error {
	return syncer.Delete(ctx, r.engine, collectables, id)
}

// GetEvents returns the events calendar, empty by default.
func (r *MuseumRepo) GetEvents(ctx context.Context) []model.Event {
	return syncer.Get(ctx, r.engine, events)
}

// GetHomepageGallery returns the homepage gallery slides.
func (r *MuseumRepo) GetHomepageGallery(ctx context.Context) []model.GalleryItem {
	return syncer.Get(ctx, r.engine, gallery)
}

// GetPageAssets returns the editable page copy and imagery.
func (r *MuseumRepo) GetPageAssets(ctx context.Context) model.PageAssets {
	return syncer.GetDocument(ctx, r.engine, pageAssets)
}

// SavePageAssets replaces the page assets wholesale.
func (r *MuseumRepo) SavePageAssets(ctx context.Context, a model.PageAssets) error {
	return syncer.PutDocument(ctx, r.engine, pageAssets, a)
}
