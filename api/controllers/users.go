package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamrank/trs/api/transport"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

type UsersController struct {
	storage storage.UserStorage
}

func NewUsersController(s storage.UserStorage) *UsersController {
	return &UsersController{storage: s}
}

func (c *UsersController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/users")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
}

// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} storage.User
// @Failure 500 {object} map[string]string
// @Router /api/users [get]
func (c *UsersController) getAll(g *gin.Context) {
	users, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("USERS: failed to list users: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, users)
}

// @Summary Get a user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} storage.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/{id} [get]
func (c *UsersController) get(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logging.Log.Errorf("USERS: failed to get user %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// @Security AdminToken
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} storage.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/users [post]
func (c *UsersController) create(g *gin.Context) {
	var req createUserRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Name == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request empty name"})
		return
	}

	user := &storage.User{ID: req.ID, Name: req.Name, Email: req.Email, CreatedAt: time.Now().UTC()}
	if err := c.storage.Create(g.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			g.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		logging.Log.Errorf("USERS: failed to create user: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, user)
}
