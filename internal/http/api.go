package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ludus-server/internal/auth"
	"ludus-server/internal/domain"
	"ludus-server/internal/repository"
	"ludus-server/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth      service.AuthService
	users     service.UserService
	games     service.GameService
	purchases service.PurchaseService
	codec     *auth.Codec
	baseURL   string
	logger    *logrus.Logger
}

func NewHandler(
	authSvc service.AuthService,
	users service.UserService,
	games service.GameService,
	purchases service.PurchaseService,
	codec *auth.Codec,
	baseURL string,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		auth:      authSvc,
		users:     users,
		games:     games,
		purchases: purchases,
		codec:     codec,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestLogger(h.logger))
	router.Use(metricsMiddleware())
	router.Use(tokenFilter(h.codec, h.users, h.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metricsHandler())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
	}

	api := router.Group("/api")
	{
		api.GET("/games", h.listGames)
		api.GET("/games/:id", h.getGame)
		api.POST("/games", requireAuthority(domain.AuthorityAdmin), h.createGame)
		api.PUT("/games/:id", requireAuthority(domain.AuthorityAdmin), h.updateGame)
		api.DELETE("/games/:id", requireAuthority(domain.AuthorityAdmin), h.deleteGame)

		api.GET("/users", requireAuthority(domain.AuthorityAdmin), h.listUsers)
		api.GET("/users/:id", requireAuthority(domain.AuthorityUser), h.getUser)
		api.PATCH("/users/:id", requireAuthority(domain.AuthorityAdmin), h.updateUser)
		api.DELETE("/users/:id", requireAuthority(domain.AuthorityAdmin), h.deleteUser)
		api.GET("/users/:id/purchases", requireAuthority(domain.AuthorityUser), h.listUserPurchases)

		api.GET("/purchases", requireAuthority(domain.AuthorityAdmin), h.listPurchases)
		api.GET("/purchases/:id", requireAuthority(domain.AuthorityUser), h.getPurchase)
		api.POST("/purchases", requireAuthority(domain.AuthorityUser), h.createPurchase)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The provided JSON is malformed or contains syntax errors"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.Status(http.StatusOK)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The provided JSON is malformed or contains syntax errors"})
		return
	}

	token, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.Status(http.StatusCreated)
}

// writeError maps service and repository errors to HTTP responses at a
// single boundary. Credential-shape failures are 400 while mismatches
// stay 401, matching the two documented login failure modes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationErr.Details})
	case errors.Is(err, service.ErrCredentialsShape),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidPage):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, auth.ErrTokenCreation):
		h.logger.WithError(err).Error("token signing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while logging in"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

type infoResponse struct {
	Total int64   `json:"total"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

type pageResponse[T any] struct {
	Info infoResponse `json:"info"`
	Data []T          `json:"data"`
}

func (h *Handler) buildInfo(info service.PageInfo, endpoint string) infoResponse {
	resp := infoResponse{Total: info.Total, Pages: info.Pages}
	if info.HasNext {
		next := fmt.Sprintf("%s/%s?page=%d", h.baseURL, endpoint, info.Page+1)
		resp.Next = &next
	}
	if info.HasPrev {
		prev := fmt.Sprintf("%s/%s?page=%d", h.baseURL, endpoint, info.Page-1)
		resp.Prev = &prev
	}
	return resp
}

func pageParam(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid page format: must be a number")
	}
	return page, nil
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id format: must be a number")
	}
	return id, nil
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func userToResponse(user domain.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

func (h *Handler) listUsers(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	users, info, err := h.users.List(c.Request.Context(), page, c.Query("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, pageResponse[userResponse]{Info: h.buildInfo(info, "users"), Data: resp})
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

type userPatchRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The provided JSON is malformed or contains syntax errors"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UserPatch{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type gameResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Genre       string  `json:"genre"`
	ReleaseYear int     `json:"releaseYear"`
	Platform    string  `json:"platform"`
	Price       float64 `json:"price"`
}

func gameToResponse(game domain.Game) gameResponse {
	return gameResponse{
		ID:          game.ID,
		Name:        game.Name,
		Genre:       string(game.Genre),
		ReleaseYear: game.ReleaseYear,
		Platform:    string(game.Platform),
		Price:       game.Price,
	}
}

func (h *Handler) listGames(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	games, info, err := h.games.List(c.Request.Context(), page, c.Query("genre"), c.Query("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]gameResponse, len(games))
	for i := range games {
		resp[i] = gameToResponse(games[i])
	}
	c.JSON(http.StatusOK, pageResponse[gameResponse]{Info: h.buildInfo(info, "games"), Data: resp})
}

func (h *Handler) getGame(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	game, err := h.games.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameToResponse(*game))
}

type gameRequest struct {
	Name        string  `json:"name" binding:"required"`
	Genre       string  `json:"genre" binding:"required"`
	ReleaseYear int     `json:"releaseYear"`
	Platform    string  `json:"platform" binding:"required"`
	Price       float64 `json:"price"`
}

func (h *Handler) createGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The provided JSON is malformed or contains syntax errors"})
		return
	}

	game, err := h.games.Create(c.Request.Context(), service.GameInput{
		Name:        req.Name,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Platform:    req.Platform,
		Price:       req.Price,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gameToResponse(*game))
}

type gamePatchRequest struct {
	Name        *string  `json:"name"`
	Genre       *string  `json:"genre"`
	ReleaseYear *int     `json:"releaseYear"`
	Platform    *string  `json:"platform"`
	Price       *float64 `json:"price"`
}

func (h *Handler) updateGame(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var req gamePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The provided JSON is malformed or contains syntax errors"})
		return
	}

	game, err := h.games.Update(c.Request.Context(), id, service.GamePatch{
		Name:        req.Name,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Platform:    req.Platform,
		Price:       req.Price,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameToResponse(*game))
}

func (h *Handler) deleteGame(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.games.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type purchaseResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	GameID        int64   `json:"gameId"`
	Price         float64 `json:"price"`
	PaymentMethod string  `json:"paymentMethod"`
	PurchaseDate  string  `json:"purchaseDate"`
}

func purchaseToResponse(purchase domain.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:            purchase.ID,
		UserID:        purchase.UserID,
		GameID:        purchase.GameID,
		Price:         purchase.Price,
		PaymentMethod: string(purchase.PaymentMethod),
		PurchaseDate:  purchase.PurchaseDate.Format(time.DateOnly),
	}
}

type purchaseRequest struct {
	UserID        int64  `json:"userId" binding:"required"`
	GameID        int64  `json:"gameId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func (h *Handler) createPurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The provided JSON is malformed or contains syntax errors"})
		return
	}

	purchase, err := h.purchases.Create(c.Request.Context(), service.PurchaseInput{
		UserID:        req.UserID,
		GameID:        req.GameID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchaseToResponse(*purchase))
}

func (h *Handler) getPurchase(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	purchase, err := h.purchases.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchaseToResponse(*purchase))
}

func (h *Handler) listPurchases(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var gameID int64
	if raw := c.Query("gameId"); raw != "" {
		gameID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid gameId format: must be a number"})
			return
		}
	}

	purchases, info, err := h.purchases.List(c.Request.Context(), page, gameID, c.Query("paymentMethod"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]purchaseResponse, len(purchases))
	for i := range purchases {
		resp[i] = purchaseToResponse(purchases[i])
	}
	c.JSON(http.StatusOK, pageResponse[purchaseResponse]{Info: h.buildInfo(info, "purchases"), Data: resp})
}

func (h *Handler) listUserPurchases(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	purchases, err := h.purchases.ListByUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]purchaseResponse, len(purchases))
	for i := range purchases {
		resp[i] = purchaseToResponse(purchases[i])
	}
	c.JSON(http.StatusOK, resp)
}
