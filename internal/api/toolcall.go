package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"kairos-backend/internal/middleware"
)

type startCallRequest struct {
	CallID          string `json:"call_id"`
	ParticipantName string `json:"participant_name"`
}

type toolCallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type identifyArgs struct {
	PhoneNumber string `json:"phone_number"`
}

type fetchSlotsArgs struct {
	DatePreference string `json:"date_preference"`
}

type bookArgs struct {
	PhoneNumber string `json:"phone_number"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type modifyArgs struct {
	PhoneNumber  string `json:"phone_number"`
	OriginalDate string `json:"original_date"`
	NewDate      string `json:"new_date"`
	NewTime      string `json:"new_time"`
}

type cancelArgs struct {
	PhoneNumber string `json:"phone_number"`
	Date        string `json:"date"`
}

type endArgs struct {
	PhoneNumber string `json:"phone_number"`
	Summary     string `json:"summary"`
}

// startCall opens a session for a new call. The runtime sends this
// when the caller connects, before any tool is invoked.
func (s *Server) startCall(c *fiber.Ctx) error {
	var req startCallRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CallID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "call_id required")
	}

	s.sessions.Start(req.CallID, req.ParticipantName)
	s.log.Info("call started",
		zap.String("call_id", req.CallID),
		zap.String("agent", middleware.CallingAgent(c)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call_id": req.CallID})
}

// toolCall dispatches one intent invocation and returns the spoken
// reply. The session is created lazily if the start webhook was lost.
func (s *Server) toolCall(c *fiber.Ctx) error {
	callID := c.Params("id")
	if callID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "call id required")
	}

	var req toolCallRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sess := s.sessions.Get(callID)
	ctx := c.UserContext()

	var result string
	switch req.Name {
	case "identify_user":
		var args identifyArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
		}
		result = s.agent.IdentifyUser(ctx, sess, args.PhoneNumber)

	case "fetch_slots":
		args := fetchSlotsArgs{DatePreference: "tomorrow"}
		if len(req.Arguments) > 0 {
			if err := json.Unmarshal(req.Arguments, &args); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
			}
		}
		if args.DatePreference == "" {
			args.DatePreference = "tomorrow"
		}
		result = s.agent.FetchSlots(ctx, sess, args.DatePreference)

	case "book_appointment":
		var args bookArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
		}
		result = s.agent.BookAppointment(ctx, sess, args.PhoneNumber, args.Date, args.Time)

	case "retrieve_appointments":
		var args identifyArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
		}
		result = s.agent.RetrieveAppointments(ctx, sess, args.PhoneNumber)

	case "modify_appointment":
		var args modifyArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
		}
		result = s.agent.ModifyAppointment(ctx, sess, args.PhoneNumber, args.OriginalDate, args.NewDate, args.NewTime)

	case "cancel_appointment":
		var args cancelArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
		}
		result = s.agent.CancelAppointment(ctx, sess, args.PhoneNumber, args.Date)

	case "end_conversation":
		var args endArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid arguments")
		}
		result = s.agent.EndConversation(ctx, sess, args.PhoneNumber, args.Summary)
		s.sessions.End(callID)

	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown tool: "+req.Name)
	}

	return c.JSON(fiber.Map{"result": result})
}
