package export

// ApplicationColumns is the layout for application lists.
var ApplicationColumns = []Column{
	{Key: "id", Label: "ID"},
	{Key: "activity_name", Label: "Activity"},
	{Key: "applicant_username", Label: "Applicant"},
	{Key: "venue_name", Label: "Venue"},
	{Key: "start_time", Label: "Start"},
	{Key: "end_time", Label: "End"},
	{Key: "status", Label: "Status"},
	{Key: "reject_reason", Label: "Reject Reason"},
}

// UserColumns is the layout for the user list.
var UserColumns = []Column{
	{Key: "id", Label: "ID"},
	{Key: "username", Label: "Username"},
	{Key: "role", Label: "Role"},
	{Key: "department", Label: "Department"},
	{Key: "phone", Label: "Phone"},
}
