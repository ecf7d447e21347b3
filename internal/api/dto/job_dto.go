package dto

// CreateJobRequest carries the create form. The shop never enforces
// required fields; blanks are persisted as-is.
type CreateJobRequest struct {
	CustomerName string `form:"customerName"`
	Phone        string `form:"phone"`
	ItemType     string `form:"itemType"`
	Quantity     int    `form:"quantity"`
}

// UpdateStatusRequest carries the status form. Status is free text.
type UpdateStatusRequest struct {
	Status string `form:"status"`
}

// LoginRequest carries the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
