package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

type TeamHandler struct {
	service ports.TeamService
}

func NewTeamHandler(service ports.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// Register handles POST /api/teams/register.
//
// @Summary      Register a transport team for approval
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerTeamRequest  true  "Team details"
// @Success      201   {object}  teamResponse
// @Failure      400   {object}  errorResponse  "Caller already owns a team"
// @Router       /api/teams/register [post]
func (h *TeamHandler) Register(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req registerTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	team, err := h.service.Register(c.Request().Context(), ports.RegisterTeamInput{
		Name:        req.Name,
		Description: req.Description,
		VehicleType: req.VehicleType,
		Region:      req.Region,
		Price:       req.Price,
		MemberCount: req.MemberCount,
		Members:     req.Members,
		OwnerID:     caller.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, teamResponse{Message: "team submitted, awaiting approval", Team: team})
}

// List handles GET /api/teams (admin).
//
// @Summary      List teams
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Team
// @Router       /api/teams [get]
func (h *TeamHandler) List(c echo.Context) error {
	teams, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teams)
}

// Get handles GET /api/teams/:id (admin).
//
// @Summary      Get a team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Team id"
// @Success      200  {object}  domain.Team
// @Failure      404  {object}  errorResponse
// @Router       /api/teams/{id} [get]
func (h *TeamHandler) Get(c echo.Context) error {
	team, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// Approve handles PUT /api/teams/approve/:id (admin).
//
// @Summary      Approve a team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Team id"
// @Success      200  {object}  teamResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/teams/approve/{id} [put]
func (h *TeamHandler) Approve(c echo.Context) error {
	team, err := h.service.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teamResponse{Message: "team approved", Team: team})
}

// Reject handles PUT /api/teams/reject/:id (admin).
//
// @Summary      Reject a team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Team id"
// @Success      200  {object}  teamResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/teams/reject/{id} [put]
func (h *TeamHandler) Reject(c echo.Context) error {
	team, err := h.service.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, teamResponse{Message: "team rejected", Team: team})
}

// Delete handles DELETE /api/teams/:id. Owners and admins only.
//
// @Summary      Delete a team
// @Tags         teams
// @Security     BearerAuth
// @Param        id   path  string  true  "Team id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/teams/{id} [delete]
func (h *TeamHandler) Delete(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), caller); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
