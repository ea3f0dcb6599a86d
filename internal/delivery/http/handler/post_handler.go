package handler

import (
	"carenet/internal/delivery/http/dto"
	"carenet/internal/domain/post"
	"carenet/internal/pkg/response"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PostHandler struct {
	uc usecase.PostUsecase
}

type createPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func NewPostHandler(uc usecase.PostUsecase) *PostHandler {
	return &PostHandler{uc: uc}
}

func (h *PostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Feed)
	r.Post("/", h.Create)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/like", h.ToggleLike)
	r.Get("/:id/comments", h.Comments)
	r.Post("/:id/comments", h.AddComment)
}

// Feed lists posts newest first; ?author=<id> narrows it to one profile's activity.
func (h *PostHandler) Feed(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	f := post.FeedFilter{Limit: queryInt(c, "limit", 20), Offset: queryInt(c, "offset", 0)}
	if raw := c.Query("author"); raw != "" {
		author, err := uuid.Parse(raw)
		if err != nil {
			return mapUsecaseError(usecase.ErrInvalidInput, "")
		}
		f.AuthorID = &author
	}

	items, err := h.uc.Feed(c.Context(), userID, f)
	if err != nil {
		return mapUsecaseError(err, "Post")
	}
	return response.List(c, response.MessageOK, dto.NewPostResponses(items), f.Limit, f.Offset)
}

func (h *PostHandler) Create(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Create(c.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Created(c, response.MessageCreated, dto.NewPostResponse(p))
}

func (h *PostHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, postID); err != nil {
		return mapUsecaseError(err, "Post")
	}
	return response.Success(c, fiber.StatusOK, "Post deleted", nil)
}

func (h *PostHandler) ToggleLike(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.uc.ToggleLike(c.Context(), userID, postID)
	if err != nil {
		return mapUsecaseError(err, "Post")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.LikeResponse{Liked: res.Liked, LikeCount: res.LikeCount})
}

func (h *PostHandler) Comments(c fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.Comments(c.Context(), postID)
	if err != nil {
		return mapUsecaseError(err, "Post")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCommentResponses(items))
}

func (h *PostHandler) AddComment(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	postID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cm, err := h.uc.AddComment(c.Context(), userID, postID, req.Content)
	if err != nil {
		return mapUsecaseError(err, "Post")
	}
	return response.Created(c, response.MessageCreated, dto.NewCommentResponse(cm))
}
