package response

import "github.com/gofiber/fiber/v2"

// Error codes carried in the flat response envelope
const (
	ErrMissingBaseText = "missing_base_text"
	ErrInvalidJSON     = "invalid_json_payload"
	ErrRateLimited     = "rate_limited"
)

// ErrorBody is the flat error shape of the /generate API
type ErrorBody struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func BadRequest(c *fiber.Ctx, code string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Text: "", Error: code})
}

func RateLimited(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(ErrorBody{Text: "", Error: ErrRateLimited})
}

// Upstream reports a generation API failure, mirroring the upstream HTTP
// status and returning the caller's text untouched.
func Upstream(c *fiber.Ctx, status int, baseText, detail string) error {
	return c.Status(status).JSON(ErrorBody{Text: baseText, Error: detail})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
