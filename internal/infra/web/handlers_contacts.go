package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asysc2020/relationship-manager-project/internal/app"
	"github.com/asysc2020/relationship-manager-project/internal/domain/outreach"
	"github.com/asysc2020/relationship-manager-project/internal/domain/relationship"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
)

// ContactHandler serves the contact CRUD surface and the method selection
// flow that finalizes a contact's reminder schedule.
type ContactHandler struct {
	contactService  *app.ContactService
	scheduleService *app.ScheduleService
}

func NewContactHandler(cs *app.ContactService, ss *app.ScheduleService) *ContactHandler {
	return &ContactHandler{
		contactService:  cs,
		scheduleService: ss,
	}
}

// List returns the acting user's contacts ordered by first name.
func (h *ContactHandler) List(c *gin.Context) {
	rels, err := h.contactService.ListContacts(c.Request.Context(), actingUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to list contacts"})
		return
	}

	contacts := make([]ContactResponse, 0, len(rels))
	for _, rel := range rels {
		contacts = append(contacts, newContactResponse(rel))
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: contacts})
}

// Create adds a contact for the acting user.
func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	rel, err := h.contactService.AddContact(c.Request.Context(), actingUserID(c), req.FirstName, req.LastName, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyName), errors.Is(err, relationship.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to create contact"})
		}
		return
	}

	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: newContactResponse(rel)})
}

// Get returns one owned contact.
func (h *ContactHandler) Get(c *gin.Context) {
	relationshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rel, err := h.contactService.GetContact(c.Request.Context(), actingUserID(c), relationshipID)
	if err != nil {
		if errors.Is(err, idb.ErrRelationshipNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: idb.ErrRelationshipNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to get contact"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: newContactResponse(rel)})
}

// Update applies a single tagged field change to an owned contact.
func (h *ContactHandler) Update(c *gin.Context) {
	relationshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ContactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	upd, err := h.contactService.UpdateContact(c.Request.Context(), actingUserID(c), relationshipID, req.Field, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, relationship.ErrUnknownUpdateField),
			errors.Is(err, relationship.ErrEmptyUpdateValue),
			errors.Is(err, relationship.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
		case errors.Is(err, idb.ErrRelationshipNotFound):
			c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: idb.ErrRelationshipNotFound.Error()})
		default:
			c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to update contact"})
		}
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: ContactUpdateResponse{
			Field: string(upd.Field),
			Value: upd.Value,
		},
	})
}

// Recommendations returns the method suggestions for an owned contact's
// category.
func (h *ContactHandler) Recommendations(c *gin.Context) {
	relationshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	opts, err := h.contactService.MethodOptions(c.Request.Context(), actingUserID(c), relationshipID)
	if err != nil {
		if errors.Is(err, idb.ErrRelationshipNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: idb.ErrRelationshipNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to load recommendations"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: MethodOptionsResponse{
			Category:           opts.Category.Label(),
			RecommendedMethods: opts.Methods,
		},
	})
}

// FinalizeMethods stores the chosen methods and generates the contact's
// reminder schedule.
func (h *ContactHandler) FinalizeMethods(c *gin.Context) {
	relationshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req FinalizeMethodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	sum, err := h.scheduleService.FinalizeMethods(c.Request.Context(), actingUserID(c), relationshipID, req.Methods)
	if err != nil {
		switch {
		case errors.Is(err, idb.ErrRelationshipNotFound):
			c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: idb.ErrRelationshipNotFound.Error()})
		case errors.Is(err, app.ErrScheduleExists):
			c.JSON(http.StatusConflict, APIResponse{Success: false, Error: app.ErrScheduleExists.Error()})
		case errors.Is(err, app.ErrBlankMethod),
			errors.Is(err, outreach.ErrInvalidCreatedAt),
			errors.Is(err, relationship.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to generate schedule"})
		}
		return
	}

	resp := ScheduleSummaryResponse{
		RelationshipID: sum.RelationshipID,
		Methods:        sum.Methods,
		EventCount:     sum.EventCount,
	}
	if sum.EventCount > 0 {
		first, last := sum.FirstScheduled, sum.LastScheduled
		resp.FirstScheduled = &first
		resp.LastScheduled = &last
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: resp})
}

// pathID parses a positive integer path parameter, answering 400 itself when
// the value is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid %s", name),
		})
		return 0, false
	}
	return id, true
}
