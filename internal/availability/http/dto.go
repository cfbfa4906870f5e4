package http

import (
	"time"

	"github.com/lumabook/scheduling-backend/internal/availability"
	"github.com/lumabook/scheduling-backend/internal/pkg/localtime"
)

type SlotBody struct {
	Day   string `json:"day" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type ReplaceSlotsBody struct {
	Slots []SlotBody `json:"slots" binding:"required,dive"`
}

type SlotResponse struct {
	ID       string `json:"id"`
	Day      string `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	IsActive bool   `json:"is_active"`
}

func NewSlotResponse(s *availability.Slot) SlotResponse {
	return SlotResponse{
		ID:       s.ID,
		Day:      s.Day.String(),
		Start:    s.Start.String(),
		End:      s.End.String(),
		IsActive: s.IsActive,
	}
}

func toSlotInputs(bodies []SlotBody) ([]availability.SlotInput, error) {
	inputs := make([]availability.SlotInput, len(bodies))
	for i, b := range bodies {
		day, err := localtime.ParseDay(b.Day)
		if err != nil {
			return nil, availability.ErrInvalidDay
		}
		start, err := localtime.ParseTimeOfDay(b.Start)
		if err != nil {
			return nil, availability.ErrInvalidTimeRange
		}
		end, err := localtime.ParseTimeOfDay(b.End)
		if err != nil {
			return nil, availability.ErrInvalidTimeRange
		}
		inputs[i] = availability.SlotInput{Day: day, Start: start, End: end}
	}
	return inputs, nil
}

type CreateBlockedBody struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason"`
}

type BlockedTimeResponse struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBlockedTimeResponse(bt *availability.BlockedTime) BlockedTimeResponse {
	return BlockedTimeResponse{
		ID:        bt.ID,
		StartTime: bt.StartTime,
		EndTime:   bt.EndTime,
		Reason:    bt.Reason,
		CreatedAt: bt.CreatedAt,
	}
}
