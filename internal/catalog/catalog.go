// Package catalog is the read-only list of offered detailing services. The
// data ships with the app; it is not fetched from the backend.
package catalog

import "washlog/internal/core"

// Service describes one offered service with its starting price.
type Service struct {
	Title       string
	Description string
	From        core.Money
	Icon        string
}

var services = []Service{
	{
		Title:       "Interior Detailing",
		Description: "Deep cleaning of seats, dashboard, and all interior surfaces",
		From:        core.Money{Paise: 99900},
		Icon:        "car-sport",
	},
	{
		Title:       "Paint Protection",
		Description: "Ceramic coating and paint protection film application",
		From:        core.Money{Paise: 499900},
		Icon:        "color-palette",
	},
	{
		Title:       "Engine Detailing",
		Description: "Thorough cleaning and degreasing of engine bay",
		From:        core.Money{Paise: 79900},
		Icon:        "construct",
	},
	{
		Title:       "Headlight Restoration",
		Description: "Restore cloudy and yellowed headlights",
		From:        core.Money{Paise: 59900},
		Icon:        "flashlight",
	},
	{
		Title:       "Wheel & Tire Service",
		Description: "Deep cleaning and protection for wheels and tires",
		From:        core.Money{Paise: 39900},
		Icon:        "disc",
	},
	{
		Title:       "Scratch Removal",
		Description: "Professional scratch and swirl mark removal",
		From:        core.Money{Paise: 149900},
		Icon:        "brush",
	},
	{
		Title:       "AC Sanitization",
		Description: "Complete AC vent and system sanitization",
		From:        core.Money{Paise: 69900},
		Icon:        "snow",
	},
	{
		Title:       "Rust Protection",
		Description: "Anti-rust coating and treatment",
		From:        core.Money{Paise: 299900},
		Icon:        "shield",
	},
}

// Services returns a copy of the catalog in display order.
func Services() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}
