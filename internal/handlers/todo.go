package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/handlers/dto"
	"github.com/createex/circle/internal/middleware"
	"github.com/createex/circle/internal/models"
)

type TodoHandler struct {
	db *database.Database
}

func NewTodoHandler(db *database.Database) *TodoHandler {
	return &TodoHandler{db: db}
}

// CreateTodo creates a todo (optionally with a bill) and adds any new
// members to the circle in the same transaction.
// POST /api/todos
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	circleID, err := uuid.Parse(req.CircleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	newMembers, err := parseIDs(req.MemberIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	todo := &models.Todo{
		CircleID:    circleID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	for _, url := range req.Images {
		todo.Images = append(todo.Images, models.TodoImage{URL: url})
	}

	if req.Bill != nil {
		billMembers, err := parseIDs(req.Bill.MemberIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill member id"})
			return
		}

		bill := &models.Bill{
			Title: req.Bill.Title,
			Total: req.Bill.Total,
		}
		for _, id := range billMembers {
			bill.Members = append(bill.Members, models.User{ID: id})
		}
		todo.Bill = bill

		for _, url := range req.Bill.Images {
			todo.Images = append(todo.Images, models.TodoImage{URL: url, Receipt: true})
		}
	}

	if err := h.db.CreateTodo(todo, newMembers); err != nil {
		log.Printf("Failed to create todo in circle %s: %v", circleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create todo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Todo created successfully",
		"todoId":  todo.ID,
	})
}

// GetTodos lists the circle's todos with bill status, paginated.
// GET /api/todos/:circleId?page=&limit=
func (h *TodoHandler) GetTodos(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	todos, total, err := h.db.PageTodos(circleID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get todos"})
		return
	}

	result := make([]gin.H, len(todos))
	for i, todo := range todos {
		status := "No Bill"
		totalBill := interface{}("N/A")
		if todo.Bill != nil {
			totalBill = todo.Bill.Total
			if len(todo.Bill.Members) > 0 && len(todo.Bill.Members) == len(todo.Bill.PaidBy) {
				status = "Paid"
			} else {
				status = "Pending"
			}
		}
		result[i] = gin.H{
			"id":         todo.ID,
			"title":      todo.Title,
			"billStatus": status,
			"totalBill":  totalBill,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"todos":   result,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetTodo returns a single todo with its images.
// GET /api/todos/:circleId/:todoId
func (h *TodoHandler) GetTodo(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	if !requireMember(c, h.db, userID, circleID) {
		return
	}

	todo, err := h.db.GetTodo(c.Param("todoId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return
	}

	images := make([]string, 0, len(todo.Images))
	for _, img := range todo.Images {
		if !img.Receipt {
			images = append(images, img.URL)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"todo": gin.H{
			"id":          todo.ID,
			"title":       todo.Title,
			"description": todo.Description,
			"images":      images,
		},
	})
}

// GetBill returns the equal-split breakdown of a todo's bill.
// GET /api/todos/:circleId/:todoId/bill
func (h *TodoHandler) GetBill(c *gin.Context) {
	todo, err := h.db.GetTodo(c.Param("todoId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return
	}
	if todo.Bill == nil || len(todo.Bill.Members) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo has no bill"})
		return
	}

	bill := todo.Bill
	perMember := bill.Total / float64(len(bill.Members))
	totalPaid := float64(len(bill.PaidBy)) * perMember

	paidSet := make(map[uuid.UUID]bool, len(bill.PaidBy))
	paidUsers := make([]dto.BillMember, 0, len(bill.PaidBy))
	for _, user := range bill.PaidBy {
		paidSet[user.ID] = true
		paidUsers = append(paidUsers, toBillMember(user))
	}

	allMembers := make([]dto.BillMember, 0, len(bill.Members))
	pendingUsers := make([]dto.BillMember, 0)
	for _, user := range bill.Members {
		allMembers = append(allMembers, toBillMember(user))
		if !paidSet[user.ID] {
			pendingUsers = append(pendingUsers, toBillMember(user))
		}
	}

	receipts := make([]string, 0)
	for _, img := range todo.Images {
		if img.Receipt {
			receipts = append(receipts, img.URL)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bill retrieved successfully",
		"billDetails": dto.BillDetails{
			Total:           bill.Total,
			TotalPaid:       totalPaid,
			TotalPending:    bill.Total - totalPaid,
			PayablePerUser:  perMember,
			TotalMembers:    len(allMembers),
			AllMembers:      allMembers,
			PendingUsers:    pendingUsers,
			PaidUsers:       paidUsers,
			ReceiptImageURL: receipts,
		},
	})
}

// UpdateBill marks a member's share as paid. Circle owner only.
// PATCH /api/todos/:circleId/:todoId/bill
func (h *TodoHandler) UpdateBill(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	circleID, err := uuid.Parse(c.Param("circleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid circle id"})
		return
	}

	var req struct {
		MemberID string `json:"memberId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member ID is required"})
		return
	}
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	ownerID, err := h.db.OwnerOf(circleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "circle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update bill"})
		return
	}
	if ownerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the circle owner can update the bill"})
		return
	}

	if err := h.db.MarkBillPaid(c.Param("todoId"), memberID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo or bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update bill"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Bill updated successfully"})
}


func toBillMember(user models.User) dto.BillMember {
	return dto.BillMember{
		MemberID: user.ID.String(),
		Name:     user.Name,
		Picture:  user.ProfilePicture,
	}
}

