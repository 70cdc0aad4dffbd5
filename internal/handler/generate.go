package handler

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/retoneapp/api/internal/client"
	"github.com/retoneapp/api/internal/model"
	"github.com/retoneapp/api/internal/service"
	"github.com/retoneapp/api/pkg/response"
)

type GenerateHandler struct {
	service   *service.GenerateService
	validator *validator.Validate
}

func NewGenerateHandler(svc *service.GenerateService, v *validator.Validate) *GenerateHandler {
	return &GenerateHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /generate
// @Summary      Rewrite or analyze text
// @Description  Rewrite text to a target character length, optionally steering emotion and language; analysisOnly classifies without rewriting
// @Tags         Generate
// @Accept       json
// @Produce      json
// @Param        request body model.GenerateRequest true "Generate request"
// @Success      200 {object} model.GenerateResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      502 {object} response.ErrorBody
// @Router       /generate [post]
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, response.ErrInvalidJSON)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.BadRequest(c, response.ErrMissingBaseText)
	}
	if strings.TrimSpace(req.BaseText) == "" {
		return response.BadRequest(c, response.ErrMissingBaseText)
	}

	if req.TargetLength <= 0 {
		req.TargetLength = utf8.RuneCountInString(req.BaseText)
	}

	if req.AnalysisOnly {
		return response.OK(c, h.service.Analyze(c.Context(), req.BaseText))
	}

	result, err := h.service.Rewrite(c.Context(), &req)
	if err != nil {
		status := fiber.StatusBadGateway
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return response.Upstream(c, status, req.BaseText, err.Error())
	}

	return response.OK(c, result)
}
