package controllers

import (
	"net/http"
	"strconv"

	"github.com/iamkhush/weekly-meals/services"
	"github.com/iamkhush/weekly-meals/utils"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	Svc *services.PlanService
}

func NewPlanController(svc *services.PlanService) *PlanController {
	return &PlanController{Svc: svc}
}

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// weekRefParam validates the :year/:week path segments before the
// grid builder runs; the builder itself assumes a valid ISO week.
func weekRefParam(c *gin.Context) (*services.WeekRef, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return nil, false
	}
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week"})
		return nil, false
	}
	if !utils.ValidISOWeek(year, week) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no such ISO week"})
		return nil, false
	}
	return &services.WeekRef{Year: year, Week: week}, true
}

// GetCurrentWeek renders the grid for the week containing today,
// creating the plan on first visit.
func (h *PlanController) GetCurrentWeek(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Svc.BuildWeekGrid(userID, nil)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PlanController) GetWeek(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ref, ok := weekRefParam(c)
	if !ok {
		return
	}

	res, err := h.Svc.BuildWeekGrid(userID, ref)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

type entryInput struct {
	MealID    uint   `json:"meal_id" binding:"required"`
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	MealType  string `json:"meal_type" binding:"required"`
	Notes     string `json:"notes"`
}

func (h *PlanController) AddEntry(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ref, ok := weekRefParam(c)
	if !ok {
		return
	}

	var body entryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Adding to a never-visited week creates its plan, same as
	// navigating to it.
	res, err := h.Svc.BuildWeekGrid(userID, ref)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Svc.UpsertEntry(userID, res.Plan, *body.DayOfWeek, body.MealType, body.MealID, body.Notes)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *PlanController) DeleteEntry(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ref, ok := weekRefParam(c)
	if !ok {
		return
	}
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.Svc.GetPlan(userID, ref.Year, ref.Week)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	if err := h.Svc.RemoveEntry(userID, plan, entryID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
}

// EmailWeek sends a plain-text rendering of the week to the signed-in
// user's address.
func (h *PlanController) EmailWeek(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ref, ok := weekRefParam(c)
	if !ok {
		return
	}

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "email claim missing"})
		return
	}

	res, err := h.Svc.BuildWeekGrid(userID, ref)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	body := h.Svc.RenderPlanText(res)
	if err := utils.SendWeeklyPlanEmail(email, res.Plan.Name, body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan emailed"})
}
