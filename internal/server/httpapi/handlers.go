package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/server/models"
	"github.com/mathrevise/backend/internal/server/services"
	"github.com/mathrevise/backend/internal/userreq"
)

const dateFormat = "2006-01-02"

type userResponse struct {
	Username    string             `json:"username"`
	DateOfBirth string             `json:"date_of_birth"`
	AccessLevel models.AccessLevel `json:"access_level"`
	Strikes     int                `json:"strikes"`
	Locked      bool               `json:"locked"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		Username:    u.Username,
		DateOfBirth: u.DateOfBirth.Format(dateFormat),
		AccessLevel: u.AccessLevel,
		Strikes:     u.Strikes,
		Locked:      u.Strikes >= services.LockThreshold,
	}
}

// statusForError translates a typed service error into an HTTP status.
// Kinds that cover several outcomes are refined by the wrapped sentinel.
func statusForError(err error) int {
	kind, ok := userreq.KindOf(err)
	if !ok {
		return fiber.StatusInternalServerError
	}

	switch kind {
	case userreq.InvalidDetails:
		return fiber.StatusUnauthorized
	case userreq.AccountLocked:
		return fiber.StatusLocked
	case userreq.ConnectionError, userreq.StrikeAddError:
		return fiber.StatusServiceUnavailable
	case userreq.UserNotFound:
		return fiber.StatusNotFound
	case userreq.AddUserError:
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fiber.StatusConflict
		}
		return fiber.StatusInternalServerError
	case userreq.QuestionSetError, userreq.ReviewError:
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return fiber.StatusConflict
		case errors.Is(err, common.ErrorNotFound):
			return fiber.StatusNotFound
		case errors.Unwrap(err) == nil:
			// validation failure, nothing underneath
			return fiber.StatusBadRequest
		}
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	message := "internal error"
	var ue *userreq.Error
	if errors.As(err, &ue) {
		message = ue.Message
	}
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": message})
}

// --- login ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}

	res, err := s.auth.ValidateLogin(c.UserContext(), req.Username, req.Password)
	if res == nil && err != nil {
		return respondError(c, err)
	}
	if err != nil {
		// credentials were accepted but the strike reset failed; the login
		// stands, the stale counter clears itself on the next success
		s.logger.Warn(c.UserContext(), "login succeeded with stale strike counter",
			"username", req.Username, "error", err.Error())
	}

	return c.JSON(loginResponse{
		AccessToken: res.AccessToken,
		User:        toUserResponse(res.User),
	})
}

// --- user management ---

type createUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
	AccessLevel string `json:"access_level"`
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	dob, err := time.Parse(dateFormat, req.DateOfBirth)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}

	level := models.AccessLevel(req.AccessLevel)
	if level == "" {
		level = models.AccessUser
	}
	if !level.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown access level"})
	}

	// self-registration creates plain accounts; elevated ones need an admin
	if level != models.AccessUser {
		claims := claimsFrom(c)
		if claims == nil || claims.AccessLevel != models.AccessAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "only an admin may create elevated accounts",
			})
		}
	}

	in := &services.NewUser{
		Username:    req.Username,
		Password:    req.Password,
		DateOfBirth: dob,
		AccessLevel: level,
	}
	if err := s.auth.AddUser(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.auth.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (s *Server) unlockUser(c *fiber.Ctx) error {
	if err := s.auth.UnlockUser(c.UserContext(), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	if err := s.auth.DeleteUser(c.UserContext(), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- question sets ---

func (s *Server) listQuestionSets(c *fiber.Ctx) error {
	sets, err := s.quiz.ListQuestionSets(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if sets == nil {
		sets = []models.QuestionSet{}
	}
	return c.JSON(sets)
}

func (s *Server) createQuestionSet(c *fiber.Ctx) error {
	var set models.QuestionSet
	if err := c.BodyParser(&set); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	set.Author = claimsFrom(c).Username

	if err := s.quiz.AddQuestionSet(c.UserContext(), &set); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) deleteQuestionSet(c *fiber.Ctx) error {
	if err := s.quiz.DeleteQuestionSet(c.UserContext(), c.Params("name")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- reviews ---

type reviewRequest struct {
	SetName   string `json:"set_name"`
	Responses []struct {
		Question  string `json:"question"`
		Submitted string `json:"submitted"`
		Answer    string `json:"answer"`
	} `json:"responses"`
}

func (s *Server) createReview(c *fiber.Ctx) error {
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}

	// responses are graded server-side; the submitted answer is compared
	// against the set's expected answer
	responses := make([]models.Response, 0, len(req.Responses))
	for _, r := range req.Responses {
		responses = append(responses, models.NewResponse(r.Question, r.Submitted, r.Answer))
	}

	review, err := s.quiz.RecordReview(c.UserContext(), claimsFrom(c).Username, req.SetName, responses)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (s *Server) listReviews(c *fiber.Ctx) error {
	claims := claimsFrom(c)

	// users see their own history; teachers and admins may inspect others
	username := claims.Username
	if q := c.Query("username"); q != "" && q != claims.Username {
		if claims.AccessLevel != models.AccessTeacher && claims.AccessLevel != models.AccessAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient access level",
			})
		}
		username = q
	}

	reviews, err := s.quiz.ListReviews(c.UserContext(), username)
	if err != nil {
		return respondError(c, err)
	}
	if reviews == nil {
		reviews = []models.QuizReview{}
	}
	return c.JSON(reviews)
}
