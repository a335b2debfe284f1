package mark_visited

import (
	"time"

	markVisited "github.com/m04kA/SMC-ReservationService/internal/usecase/mark_visited"
)

// MarkVisitedResponse HTTP response model
type MarkVisitedResponse struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	VisitedAt time.Time `json:"visitedAt"`
}

func FromUseCaseResponse(resp *markVisited.Response) *MarkVisitedResponse {
	return &MarkVisitedResponse{
		ID:        resp.ID,
		Status:    resp.Status,
		VisitedAt: resp.VisitedAt,
	}
}
