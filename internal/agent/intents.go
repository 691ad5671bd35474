package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kairos-backend/internal/model"
	"kairos-backend/internal/session"
	"kairos-backend/internal/speech"
)

// The fixed daily slot inventory offered to callers.
var tomorrowSlots = []string{"ten AM", "two PM", "four thirty PM"}

// IdentifyUser looks the caller up by phone number and greets them.
// Anything short of 10 digits gets a clarification prompt instead.
func (a *Agent) IdentifyUser(ctx context.Context, sess *session.Session, phoneNumber string) string {
	a.log.Info("identify_user", zap.String("call_id", sess.CallID))

	digits := digitsOnly(phoneNumber)
	if len(digits) < 10 {
		a.log.Warn("incomplete phone number", zap.Int("digits", len(digits)))
		return "Hmm, that doesn't seem like a complete phone number. Could you give me all 10 digits please?"
	}

	phone := digits[len(digits)-10:]
	sess.RawPhone = phoneNumber
	sess.Phone = phone

	a.publish("identify_user", map[string]any{"name": sess.DisplayName(), "phone": phone})

	if a.store == nil {
		return "Got it! How can I help you today?"
	}

	u, err := a.store.UserByPhone(ctx, phone)
	if err != nil {
		if isNotFound(err) {
			return "I don't have your number on file yet, but no problem! I can still help you. What would you like to do?"
		}
		a.log.Error("identify_user lookup failed", zap.Error(err))
		return "Got it! What can I help you with today?"
	}

	sess.UserID = u.ID
	sess.Name = u.FullName
	sess.LogAction("Identified user: " + u.FullName)
	return fmt.Sprintf("Hey %s! Great to hear from you. How can I help you today?", u.FullName)
}

// FetchSlots offers the day's open slots. For "today" the fixed
// inventory is filtered against the wall clock; any other preference is
// answered with tomorrow's full inventory.
func (a *Agent) FetchSlots(ctx context.Context, sess *session.Session, datePreference string) string {
	a.log.Info("fetch_slots", zap.String("call_id", sess.CallID), zap.String("preference", datePreference))

	a.publish("fetch_slots", map[string]any{"date": datePreference})

	now := a.now()

	if strings.EqualFold(datePreference, "today") {
		var open []string
		if now.Hour() < 10 {
			open = append(open, "ten AM")
		}
		if now.Hour() < 14 {
			open = append(open, "two PM")
		}
		if now.Hour() < 16 {
			open = append(open, "four thirty PM")
		}

		if len(open) == 0 {
			return "Unfortunately, all slots for today have passed. Would you like to check tomorrow instead?"
		}

		spokenDate := speech.ForDate(now.Format("2006-01-02"))
		return fmt.Sprintf("For today, %s, I have openings at %s. Which works for you?",
			spokenDate, speech.JoinList(open))
	}

	// Any other preference, explicit dates included, is answered with
	// tomorrow's fixed inventory.
	spokenDate := speech.ForDate(now.AddDate(0, 0, 1).Format("2006-01-02"))
	return fmt.Sprintf("For tomorrow, %s, I have openings at %s. Which works for you?",
		spokenDate, speech.JoinList(tomorrowSlots))
}

// BookAppointment books a one-hour slot. The requested time must be
// strictly in the future and the slot's window must be free.
func (a *Agent) BookAppointment(ctx context.Context, sess *session.Session, phoneNumber, date, hhmm string) string {
	a.log.Info("book_appointment", zap.String("call_id", sess.CallID),
		zap.String("date", date), zap.String("time", hhmm))

	spokenDate := speech.ForDate(date)
	spokenTime := speech.ForTime(hhmm)

	digits := digitsOnly(phoneNumber)
	if len(digits) < 10 {
		return "I need your full 10-digit phone number first. What's your number?"
	}
	phone := digits[len(digits)-10:]

	start, err := parseDateTime(date, hhmm)
	if err != nil {
		a.log.Warn("unparsable booking time", zap.String("date", date), zap.String("time", hhmm))
		return "I didn't catch that time correctly. Could you tell me again what time works for you?"
	}
	if !start.After(a.now()) {
		a.log.Warn("past booking requested", zap.Time("requested", start))
		return fmt.Sprintf("Oops, %s has already passed today. Would you like to book for a later time, or maybe tomorrow?", spokenTime)
	}
	end := start.Add(model.AppointmentDuration)

	a.publish("book_appointment", map[string]any{"phone": phone, "date": date, "time": hhmm})

	if a.store == nil {
		sess.LogAction(fmt.Sprintf("Booked appointment: %s at %s", spokenDate, spokenTime))
		return fmt.Sprintf("You're all set for %s at %s. Anything else?", spokenDate, spokenTime)
	}

	u, err := a.store.FindOrCreateUser(ctx, phone, sess.DisplayName())
	if err != nil {
		a.log.Error("find or create user failed", zap.Error(err))
		return "I'm having trouble booking that. Can we try again?"
	}

	taken, err := a.store.HasBookingInWindow(ctx, start, end, "")
	if err != nil {
		a.log.Error("conflict check failed", zap.Error(err))
		return "I'm having trouble booking that. Can we try again?"
	}
	if taken {
		return fmt.Sprintf("Oh, that slot at %s is already taken. Would you like to try a different time? I have openings at ten AM and four thirty PM.", spokenTime)
	}

	apt := &model.Appointment{
		ID:          uuid.New().String(),
		UserID:      u.ID,
		StartTime:   start,
		EndTime:     end,
		Status:      model.StatusBooked,
		Description: "Voice Booking",
	}
	if err := a.store.CreateAppointment(ctx, apt); err != nil {
		a.log.Error("create appointment failed", zap.Error(err))
		return "I couldn't book that slot. Want to try a different time?"
	}

	sess.LogAction(fmt.Sprintf("Booked: %s at %s", spokenDate, spokenTime))
	return fmt.Sprintf("You're all set for %s at %s. Anything else I can help with?", spokenDate, spokenTime)
}

// RetrieveAppointments reads back up to three upcoming bookings.
func (a *Agent) RetrieveAppointments(ctx context.Context, sess *session.Session, phoneNumber string) string {
	a.log.Info("retrieve_appointments", zap.String("call_id", sess.CallID))

	a.publish("retrieve_appointments", map[string]any{"phone": phoneNumber})

	if a.store == nil {
		return "You don't have any upcoming appointments. Would you like to book one?"
	}

	u, err := a.store.UserByPhone(ctx, normalizePhone(phoneNumber))
	if err != nil {
		if isNotFound(err) {
			return "I couldn't find any appointments. Would you like to book one?"
		}
		a.log.Error("retrieve lookup failed", zap.Error(err))
		return "I'm having trouble checking. Can you try again?"
	}

	apts, err := a.store.UpcomingAppointments(ctx, u.ID, a.now(), 3)
	if err != nil {
		a.log.Error("retrieve query failed", zap.Error(err))
		return "I'm having trouble checking. Can you try again?"
	}
	if len(apts) == 0 {
		return "You don't have any upcoming appointments. Want to book one?"
	}

	spoken := make([]string, len(apts))
	for i, apt := range apts {
		spoken[i] = fmt.Sprintf("%s at %s",
			speech.ForDate(apt.StartTime.Format("2006-01-02")),
			speech.ForTime(apt.StartTime.Format("15:04")))
	}

	sess.LogAction(fmt.Sprintf("Retrieved %d appointments", len(spoken)))

	if len(spoken) == 1 {
		return fmt.Sprintf("You have one appointment: %s. Need to change it?", spoken[0])
	}
	return fmt.Sprintf("You have %d appointments: %s. Anything you'd like to change?",
		len(spoken), strings.Join(spoken, ", "))
}

// ModifyAppointment moves the caller's first booked appointment on the
// original date to a new date and time, keeping the one-hour duration.
// The destination window is checked the same way booking is.
func (a *Agent) ModifyAppointment(ctx context.Context, sess *session.Session, phoneNumber, originalDate, newDate, newTime string) string {
	a.log.Info("modify_appointment", zap.String("call_id", sess.CallID),
		zap.String("from", originalDate), zap.String("to", newDate+" "+newTime))

	a.publish("modify_appointment", map[string]any{
		"original_date": originalDate,
		"new_date":      newDate,
		"new_time":      newTime,
	})

	spokenDate := speech.ForDate(newDate)
	spokenTime := speech.ForTime(newTime)

	if a.store == nil {
		sess.LogAction(fmt.Sprintf("Rescheduled to: %s at %s", spokenDate, spokenTime))
		return fmt.Sprintf("Done! Moved to %s at %s. Anything else?", spokenDate, spokenTime)
	}

	u, err := a.store.UserByPhone(ctx, normalizePhone(phoneNumber))
	if err != nil {
		if isNotFound(err) {
			return "I couldn't find your account. Can you confirm your phone number?"
		}
		a.log.Error("modify lookup failed", zap.Error(err))
		return "I'm having trouble with that. What time works for you?"
	}

	dayStart, dayEnd, err := dayWindow(originalDate)
	if err != nil {
		a.log.Warn("unparsable original date", zap.String("date", originalDate))
		return "I'm having trouble with that. What time works for you?"
	}

	apt, err := a.store.FirstBookedOnDay(ctx, u.ID, dayStart, dayEnd)
	if err != nil {
		if isNotFound(err) {
			return "I couldn't find that appointment. Want me to check your schedule?"
		}
		a.log.Error("modify find failed", zap.Error(err))
		return "I'm having trouble with that. What time works for you?"
	}

	newStart, err := parseDateTime(newDate, newTime)
	if err != nil {
		a.log.Warn("unparsable new time", zap.String("date", newDate), zap.String("time", newTime))
		return "I didn't catch that time correctly. Could you tell me again what time works for you?"
	}
	newEnd := newStart.Add(model.AppointmentDuration)

	taken, err := a.store.HasBookingInWindow(ctx, newStart, newEnd, apt.ID)
	if err != nil {
		a.log.Error("modify conflict check failed", zap.Error(err))
		return "I'm having trouble with that. What time works for you?"
	}
	if taken {
		return fmt.Sprintf("Oh, %s at %s is already taken. Would you like to try a different time?", spokenDate, spokenTime)
	}

	if err := a.store.Reschedule(ctx, apt.ID, newStart, newEnd); err != nil {
		a.log.Error("reschedule failed", zap.Error(err))
		return "That slot might not be available. Try a different time?"
	}

	sess.LogAction(fmt.Sprintf("Rescheduled to: %s at %s", spokenDate, spokenTime))
	return fmt.Sprintf("Done! Moved to %s at %s. Anything else?", spokenDate, spokenTime)
}

// CancelAppointment cancels every booked appointment the caller holds
// on the given day.
func (a *Agent) CancelAppointment(ctx context.Context, sess *session.Session, phoneNumber, date string) string {
	a.log.Info("cancel_appointment", zap.String("call_id", sess.CallID), zap.String("date", date))

	a.publish("cancel_appointment", map[string]any{"date": date})

	spokenDate := speech.ForDate(date)

	if a.store == nil {
		sess.LogAction("Cancelled appointment on " + spokenDate)
		return fmt.Sprintf("Cancelled your appointment for %s. Anything else?", spokenDate)
	}

	u, err := a.store.UserByPhone(ctx, normalizePhone(phoneNumber))
	if err != nil {
		if isNotFound(err) {
			return "I couldn't find that. Can you confirm the date?"
		}
		a.log.Error("cancel lookup failed", zap.Error(err))
		return "I'm having trouble with that. What's the date again?"
	}

	dayStart, dayEnd, err := dayWindow(date)
	if err != nil {
		a.log.Warn("unparsable cancel date", zap.String("date", date))
		return "I'm having trouble with that. What's the date again?"
	}

	n, err := a.store.CancelBookedOnDay(ctx, u.ID, dayStart, dayEnd)
	if err != nil {
		a.log.Error("cancel failed", zap.Error(err))
		return "I'm having trouble with that. What's the date again?"
	}
	if n == 0 {
		return "I couldn't find an appointment on that date. Want me to check your schedule?"
	}

	sess.LogAction("Cancelled: " + spokenDate)
	return fmt.Sprintf("Done! Cancelled your %s appointment. Need anything else?", spokenDate)
}

// EndConversation records the call summary and reads back a recap of
// everything that happened during the call.
func (a *Agent) EndConversation(ctx context.Context, sess *session.Session, phoneNumber, summary string) string {
	a.log.Info("end_conversation", zap.String("call_id", sess.CallID))

	actions := sess.Actions()

	fullSummary := summary
	if len(actions) > 0 {
		fullSummary = summary + ". Actions: " + strings.Join(actions, "; ")
	}

	if a.store != nil {
		lg := &model.ConversationLog{Summary: fullSummary}
		if u, err := a.store.UserByPhone(ctx, normalizePhone(phoneNumber)); err == nil {
			id := u.ID
			lg.UserID = &id
		}
		if err := a.store.AppendConversationLog(ctx, lg); err != nil {
			a.log.Error("conversation log write failed", zap.Error(err))
		}
	}

	a.publish("end_conversation", map[string]any{"summary": fullSummary, "actions": actions})

	if len(actions) > 0 {
		return fmt.Sprintf("Just to recap what we did today: %s. It was great helping you! Have a wonderful day!",
			strings.Join(actions, ", "))
	}
	return "It was great chatting with you! Have a wonderful day, and call back anytime!"
}
