package model

// ProposalRequest is emailed to the admin inbox and never stored.
type ProposalRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Service string  `json:"service"`
	Message string  `json:"message"`
}
