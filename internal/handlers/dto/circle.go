package dto

type CreateCircleRequest struct {
	CircleName   string   `json:"circleName" binding:"required"`
	CircleImage  string   `json:"circleImage" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Type         string   `json:"type" binding:"required,oneof=friend family organization mix"`
	Interest     string   `json:"interest" binding:"required,oneof=photography shopping music movies fitness travelling sports videoGames nightOut art"`
	MemberIDs    []string `json:"memberIds"`
	PhoneNumbers []string `json:"phoneNumbers"`
}
