package mockapi

import "github.com/naveenspark/venuebook/pkg/domain"

func defaultVenues() []domain.Venue {
	return []domain.Venue{
		{ID: 1, Name: "Student Activity Center", Location: "Building A 101", Capacity: 200, Status: domain.VenueOpen},
		{ID: 2, Name: "Gymnasium", Location: "Building B 1F", Capacity: 500, Status: domain.VenueOpen},
		{ID: 3, Name: "Multipurpose Meeting Room", Location: "Building C 3F", Capacity: 100, Status: domain.VenueMaintenance},
		{ID: 4, Name: "Open-air Plaza", Location: "Campus Center", Capacity: 1000, Status: domain.VenueOpen},
	}
}

func defaultMaterials() []domain.Material {
	return []domain.Material{
		{ID: 1, Name: "Folding Chair", Category: "Furniture", TotalStock: 200},
		{ID: 2, Name: "Long Table", Category: "Furniture", TotalStock: 80},
		{ID: 3, Name: "Wireless Microphone", Category: "Audio", TotalStock: 15},
		{ID: 4, Name: "Projector", Category: "Audio", TotalStock: 8},
		{ID: 5, Name: "LED Stage Light", Category: "Lighting", TotalStock: 30},
		{ID: 6, Name: "Balloon Kit", Category: "Decoration", TotalStock: 120},
	}
}

func defaultApplications() []domain.Application {
	return []domain.Application{
		{
			ID:                1,
			ActivityName:      "Welcome Gala Rehearsal",
			ApplicantUsername: "user",
			VenueID:           1,
			StartTime:         "2025-10-25 18:00:00",
			EndTime:           "2025-10-25 21:00:00",
			Status:            domain.StatusApproved,
			RequestedMaterials: []domain.RequestedMaterial{
				{MaterialID: 1, Name: "Folding Chair", Quantity: 100},
				{MaterialID: 3, Name: "Wireless Microphone", Quantity: 2},
			},
		},
		{
			ID:                2,
			ActivityName:      "Club Recruitment Talk",
			ApplicantUsername: "another_user",
			VenueID:           3,
			StartTime:         "2025-10-26 14:00:00",
			EndTime:           "2025-10-26 16:00:00",
			Status:            domain.StatusPending,
			RequestedMaterials: []domain.RequestedMaterial{
				{MaterialID: 4, Name: "Projector", Quantity: 1},
			},
		},
	}
}

func defaultUsers() []domain.User {
	return []domain.User{
		{ID: 1, Username: "admin", Role: domain.RoleAdmin, Department: "Information Center", Phone: "13800000001"},
		{ID: 2, Username: "reviewer", Role: domain.RoleReviewer, Department: "Youth League Committee", Phone: "13800000002"},
		{ID: 3, Username: "user", Role: domain.RoleUser, Department: "School of Computer Science", Phone: "13800000003"},
		{ID: 4, Username: "testuser", Role: domain.RoleUser, Department: "School of Foreign Languages", Phone: "13800000004"},
	}
}

// defaultThreshold is the initial low-stock alert percentage.
const defaultThreshold = 20
