package repository

import "github.com/kavya5cloud/moc/internal/model"

// The default datasets below are what a first-time visitor sees before
// anything has been fetched or written. They double as the seed written
// by Bootstrap.

func inStock() *bool {
	v := true
	return &v
}

var defaultExhibitions = []model.Exhibition{
	{
		ID:          "1",
		Title:       "Signals: How Video Transformed the World",
		DateRange:   "Now through July 08, 2024",
		Description: "Explore the vast influence of video art on global culture and politics. This retrospective features over 50 artists who pioneered the medium.",
		ImageURL:    "https://images.unsplash.com/photo-1554188248-986adbb73be4?auto=format&fit=crop&q=80&w=800",
		Category:    "Video & Media",
	},
	{
		ID:          "2",
		Title:       "Modernism in Gujarat: 1950-1980",
		DateRange:   "Opens Sep 15, 2024",
		Description: "A deep dive into the architectural and artistic movements that defined post-independence Gujarat, curated from our permanent archives.",
		ImageURL:    "https://images.unsplash.com/photo-1493397212122-2b85dda8106b?auto=format&fit=crop&q=80&w=800",
		Category:    "Architecture",
	},
	{
		ID:          "3",
		Title:       "Refik Anadol: Unsupervised",
		DateRange:   "Permanent Collection",
		Description: "Machine learning algorithms dream of modern art history in this immersive digital installation.",
		ImageURL:    "https://images.unsplash.com/photo-1550684848-fac1c5b4e853?auto=format&fit=crop&q=80&w=800",
		Category:    "Installation",
	},
	{
		ID:          "4",
		Title:       "Design for Modern Life",
		DateRange:   "Now through Dec 31, 2024",
		Description: "Objects that defined the 20th century aesthetic, from Bauhaus furniture to contemporary industrial design.",
		ImageURL:    "https://images.unsplash.com/photo-1538688525198-9b88f6f53126?auto=format&fit=crop&q=80&w=800",
		Category:    "Design",
	},
}

var defaultArtworks = []model.Artwork{
	{
		ID:       "a1",
		Title:    "The Geometric Void",
		Artist:   "Gandhinagar Collective",
		Year:     "2023",
		Medium:   "Acrylic on concrete",
		ImageURL: "https://images.unsplash.com/photo-1541701494587-cb58502866ab?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID:       "a2",
		Title:    "Echoes of the Sabarmati",
		Artist:   "Priya Shah",
		Year:     "2021",
		Medium:   "Digital Projection",
		ImageURL: "https://images.unsplash.com/photo-1515405299443-f71bb768a1d5?auto=format&fit=crop&q=80&w=800",
	},
	{
		ID:       "a3",
		Title:    "Brutalist Whisper",
		Artist:   "Vikram Mehta",
		Year:     "2019",
		Medium:   "Reinforced Steel Sculpture",
		ImageURL: "https://images.unsplash.com/photo-1579783902614-a3fb3927b6a5?auto=format&fit=crop&q=80&w=800",
	},
}

var defaultCollectables = []model.Collectable{
	{
		ID:          "c1",
		Name:        "MOCA Tote Bag",
		Price:       1200,
		Category:    "Accessories",
		ImageURL:    "https://images.unsplash.com/photo-1544816155-12df9643f363?auto=format&fit=crop&q=80&w=400",
		Description: "Heavyweight canvas tote featuring the MOCA logo.",
		InStock:     inStock(),
	},
	{
		ID:          "c2",
		Name:        "Exhibition Catalogue: Signals",
		Price:       3500,
		Category:    "Books",
		ImageURL:    "https://images.unsplash.com/photo-1544947950-fa07a98d237f?auto=format&fit=crop&q=80&w=400",
		Description: "Full color hardcover book documenting the history of video art.",
		InStock:     inStock(),
	},
}

var defaultAssets = model.PageAssets{
	About: model.AboutAssets{
		Hero:           "https://images.unsplash.com/photo-1518998053901-5348d3961a04?auto=format&fit=crop&q=80&w=1600",
		Atrium:         "https://images.unsplash.com/photo-1493397212122-2b85dda8106b?auto=format&fit=crop&q=80&w=1600",
		Title:          "Our Story",
		IntroTitle:     "A Sanctuary for Modern Thought",
		IntroPara1:     "Founded in 2024, MOCA Gandhinagar serves as a vital bridge between Gujarat's rich cultural heritage and the global avant-garde.",
		IntroPara2:     "Located within the serene Veer Residency, our museum offers 20,000 square feet of gallery space dedicated to the art of our time.",
		MissionTitle:   "Our Mission",
		MissionDesc:    "To inspire, challenge, and connect our community through the transformative power of modern and contemporary art.",
		GlobalTitle:    "Global Outlook",
		GlobalDesc:     "We bring international retrospectives to Gandhinagar while providing a platform for local artists to reach a world audience.",
		CommunityTitle: "Community Heart",
		CommunityDesc:  "MOCA is a free institution, ensuring that art education and inspiration are accessible to everyone regardless of background.",
		ArchTitle:      "The Architecture of Silence",
		ArchPara1:      "Our building is a masterpiece of modern brutalism, designed to be a \"neutral vessel\" for the art it contains.",
		ArchPara2:      "Light and shadow play across the raw concrete walls, creating a meditative environment for viewing and reflection.",
		Team: []model.TeamMember{
			{ID: "t1", Name: "Dr. Aarav Patel", Role: "Chief Curator", ImageURL: "https://i.pravatar.cc/300?u=aarav"},
			{ID: "t2", Name: "Meera Shah", Role: "Director of Education", ImageURL: "https://i.pravatar.cc/300?u=meera"},
			{ID: "t3", Name: "Vikram Mehta", Role: "Head of Conservation", ImageURL: "https://i.pravatar.cc/300?u=vikram"},
		},
	},
	Visit: model.VisitAssets{
		Hero:           "https://images.unsplash.com/photo-1554188248-986adbb73be4?auto=format&fit=crop&q=80&w=1600",
		Hours:          "10:30 AM - 6:00 PM",
		LocationText:   "Veer Residency, Gandhinagar Mahudi Highway, Gujarat, India",
		GoogleMapsLink: "https://www.google.com/maps/search/Veer+Residency+Gandhinagar",
		AdmissionInfo:  "General admission to MOCA Gandhinagar is currently FREE for all visitors. We believe art is a public right.",
		ParkingInfo:    "Free secure parking is available on-site for all museum visitors.",
	},
	Membership: model.MembershipAssets{
		Hero: "https://images.unsplash.com/photo-1518998053901-5348d3961a04?auto=format&fit=crop&q=80&w=1600",
	},
	Home: model.HomeAssets{
		HeroBg: "https://images.unsplash.com/photo-1541701494587-cb58502866ab?auto=format&fit=crop&q=80&w=1600",
	},
}
