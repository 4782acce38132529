package catalog

import "etp/internal/core"

// Compiled-in seed data used when no seed files are present.

var defaultUsers = []core.User{
	{Name: "John Smith", Email: "john.smith@company.com"},
	{Name: "Sarah Johnson", Email: "sarah.johnson@company.com"},
	{Name: "Michael Chen", Email: "michael.chen@company.com"},
}

var defaultPools = map[core.Category][]string{
	core.Food:           {"Starbucks Coffee", "Subway Lunch", "Pizza Delivery", "Grocery Shopping", "Restaurant Dinner"},
	core.Transportation: {"Uber Ride", "Gas Station", "Parking Fee", "Metro Card", "Taxi Service"},
	core.Shopping:       {"Amazon Purchase", "Target Store", "Best Buy Electronics", "Clothing Store", "Online Shopping"},
	core.Entertainment:  {"Netflix Subscription", "Movie Tickets", "Concert Tickets", "Gaming Purchase", "Spotify Premium"},
	core.Utilities:      {"Electric Bill", "Water Bill", "Internet Service", "Phone Bill", "Gas Bill"},
	core.Healthcare:     {"Pharmacy", "Doctor Visit", "Dental Checkup", "Health Insurance", "Medical Supplies"},
}
