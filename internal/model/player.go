package model

// Player identifies a human across games before they are seated.
type Player struct {
	ID   string
	Name string
}

// ClientPlayer is a seated player as clients see them. An empty ID means
// the seat is open.
type ClientPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
