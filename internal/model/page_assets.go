package model

// TeamMember is shown in the team strip of the about page.
type TeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ImageURL string `json:"imageUrl"`
}

// AboutAssets is the editorial copy of the about page.
type AboutAssets struct {
	Hero           string       `json:"hero"`
	Atrium         string       `json:"atrium"`
	Title          string       `json:"title"`
	IntroTitle     string       `json:"introTitle"`
	IntroPara1     string       `json:"introPara1"`
	IntroPara2     string       `json:"introPara2"`
	MissionTitle   string       `json:"missionTitle"`
	MissionDesc    string       `json:"missionDesc"`
	GlobalTitle    string       `json:"globalTitle"`
	GlobalDesc     string       `json:"globalDesc"`
	CommunityTitle string       `json:"communityTitle"`
	CommunityDesc  string       `json:"communityDesc"`
	ArchTitle      string       `json:"archTitle"`
	ArchPara1      string       `json:"archPara1"`
	ArchPara2      string       `json:"archPara2"`
	Team           []TeamMember `json:"team"`
}

// VisitAssets is the copy of the plan-your-visit page.
type VisitAssets struct {
	Hero           string `json:"hero"`
	Hours          string `json:"hours"`
	LocationText   string `json:"locationText"`
	GoogleMapsLink string `json:"googleMapsLink"`
	AdmissionInfo  string `json:"admissionInfo"`
	ParkingInfo    string `json:"parkingInfo"`
}

// MembershipAssets holds the membership page imagery.
type MembershipAssets struct {
	Hero string `json:"hero"`
}

// HomeAssets holds the optional homepage hero background.
type HomeAssets struct {
	HeroBg string `json:"heroBg,omitempty"`
}

// PageAssets is the singleton record of editable page copy and imagery.
// It is seeded once from defaults and only ever replaced wholesale.
type PageAssets struct {
	About      AboutAssets      `json:"about"`
	Visit      VisitAssets      `json:"visit"`
	Membership MembershipAssets `json:"membership"`
	Home       HomeAssets       `json:"home"`
}
