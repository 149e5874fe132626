package dto

type BillRequest struct {
	Title     string   `json:"title"`
	Total     float64  `json:"total" binding:"required,gt=0"`
	Images    []string `json:"images"`
	MemberIDs []string `json:"memberIds" binding:"required,min=1"`
}

type CreateTodoRequest struct {
	CircleID    string       `json:"circleId" binding:"required"`
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Images      []string     `json:"images"`
	MemberIDs   []string     `json:"memberIds"`
	Bill        *BillRequest `json:"bill"`
}

type BillMember struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Picture  string `json:"profilePicture,omitempty"`
}

// BillDetails is the equal-split breakdown of a todo's bill.
type BillDetails struct {
	Total           float64      `json:"totalBillAmount"`
	TotalPaid       float64      `json:"totalPaid"`
	TotalPending    float64      `json:"totalPending"`
	PayablePerUser  float64      `json:"payablePerUser"`
	TotalMembers    int          `json:"totalMembers"`
	AllMembers      []BillMember `json:"allMembers"`
	PendingUsers    []BillMember `json:"pendingUsers"`
	PaidUsers       []BillMember `json:"paidUsers"`
	ReceiptImageURL []string     `json:"billReceiptImages"`
}
