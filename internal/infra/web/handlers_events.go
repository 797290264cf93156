package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asysc2020/relationship-manager-project/internal/app"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
)

// EventHandler serves the event overview, single-event deletion and the
// iCalendar feed.
type EventHandler struct {
	scheduleService *app.ScheduleService
}

func NewEventHandler(ss *app.ScheduleService) *EventHandler {
	return &EventHandler{scheduleService: ss}
}

// List returns the acting user's events ordered by scheduled date.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.scheduleService.ListEvents(c.Request.Context(), actingUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to list events"})
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for _, ue := range events {
		resp = append(resp, newEventResponse(ue))
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: resp})
}

// Delete removes one owned event. Deletion is the only event mutation the
// API offers.
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteEvent(c.Request.Context(), actingUserID(c), eventID); err != nil {
		if errors.Is(err, idb.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: idb.ErrEventNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// Calendar serves the acting user's events as an iCalendar file.
func (h *EventHandler) Calendar(c *gin.Context) {
	events, err := h.scheduleService.ListEvents(c.Request.Context(), actingUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to build calendar"})
		return
	}

	cal := buildCalendar(events, time.Now())
	c.Header("Content-Disposition", `attachment; filename="outreach.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
