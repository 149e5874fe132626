package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/createex/circle/internal/database"
)

// requireMember gates an operation on circle membership and writes the
// error response itself when the check fails.
func requireMember(c *gin.Context, db *database.Database, userID, circleID uuid.UUID) bool {
	member, err := db.IsMember(userID, circleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
		return false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this circle"})
		return false
	}
	return true
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
