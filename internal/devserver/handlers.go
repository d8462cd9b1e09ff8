package devserver

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Server error codes mirrored by the client's auth package.
const (
	serverCodeEmailDoesNotExist  = "AUTH_001"
	serverCodeEmailAlreadyExists = "AUTH_002"
	serverCodeIncorrectPassword  = "AUTH_003"
	serverCodeInvalidRequestBody = "AUTH_004"
	serverCodeUnauthorized       = "AUTH_009"
	serverCodeInternalError      = "AUTH_013"
	serverCodeTooManyRequests    = "AUTH_015"
	serverCodeOTPInvalid         = "OTP_001"
)

type handler struct {
	store  *state
	minter *tokenMinter
	logger *slog.Logger
}

type credentialsBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupOTPBody struct {
	UserID string `json:"userId" binding:"required"`
}

type forgotPasswordOTPBody struct {
	Email string `json:"email" binding:"required"`
}

type verifyOTPBody struct {
	Code   string `json:"code" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

type resetPasswordBody struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func respondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok", "data": data})
}

func respondError(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message, "status": httpStatus},
		"data":    nil,
	})
}

func (h *handler) signup(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, serverCodeInternalError, "failed to hash password")
		return
	}
	u, err := h.store.createUser(body.Email, hash)
	if err != nil {
		respondError(c, http.StatusConflict, serverCodeEmailAlreadyExists, "email already registered")
		return
	}
	h.issueSession(c, u)
}

func (h *handler) signin(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return
	}
	u, ok := h.store.findByEmail(body.Email)
	if !ok {
		respondError(c, http.StatusNotFound, serverCodeEmailDoesNotExist, "email does not exist")
		return
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(body.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, serverCodeIncorrectPassword, "incorrect password")
		return
	}
	h.issueSession(c, u)
}

func (h *handler) issueSession(c *gin.Context, u *user) {
	token, err := h.minter.mint(u.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, serverCodeInternalError, "failed to sign token")
		return
	}
	refresh := h.store.issueRefreshToken(u.ID)
	c.SetCookie("refreshToken", refresh, 0, "/", "", false, true)
	respondSuccess(c, gin.H{"token": token, "isVerified": u.Verified})
}

func (h *handler) signupOTPRequest(c *gin.Context) {
	var body signupOTPBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return
	}
	u, ok := h.store.findByID(body.UserID)
	if !ok {
		respondError(c, http.StatusNotFound, serverCodeEmailDoesNotExist, "unknown user")
		return
	}
	code := h.store.issueOTP(u.ID)
	h.logger.Info("otp issued", "purpose", "signup", "user_id", u.ID, "code", code)
	respondSuccess(c, nil)
}

func (h *handler) forgotPasswordOTPRequest(c *gin.Context) {
	var body forgotPasswordOTPBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return
	}
	u, ok := h.store.findByEmail(body.Email)
	if !ok {
		respondError(c, http.StatusNotFound, serverCodeEmailDoesNotExist, "email does not exist")
		return
	}
	code := h.store.issueOTP(u.ID)
	h.logger.Info("otp issued", "purpose", "forgot_password", "user_id", u.ID, "code", code)
	c.SetCookie("userId", u.ID, 0, "/", "", false, true)
	respondSuccess(c, nil)
}

func (h *handler) signupOTPVerify(c *gin.Context) {
	userID, ok := h.verifyOTP(c)
	if !ok {
		return
	}
	h.store.markVerified(userID)
	respondSuccess(c, nil)
}

func (h *handler) forgotPasswordOTPVerify(c *gin.Context) {
	if _, ok := h.verifyOTP(c); !ok {
		return
	}
	respondSuccess(c, nil)
}

func (h *handler) verifyOTP(c *gin.Context) (string, bool) {
	var body verifyOTPBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return "", false
	}
	if !h.store.consumeOTP(body.UserID, body.Code) {
		respondError(c, http.StatusUnauthorized, serverCodeOTPInvalid, "otp verification failed")
		return "", false
	}
	return body.UserID, true
}

func (h *handler) resetPassword(c *gin.Context) {
	var body resetPasswordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, serverCodeInternalError, "failed to hash password")
		return
	}
	if !h.store.setPassword(body.UserID, hash) {
		respondError(c, http.StatusNotFound, serverCodeEmailDoesNotExist, "unknown user")
		return
	}
	respondSuccess(c, nil)
}

func (h *handler) refresh(c *gin.Context) {
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, serverCodeInvalidRequestBody, "invalid request body")
		return
	}
	userID, replacement, ok := h.store.rotateRefreshToken(body.RefreshToken)
	if !ok {
		respondError(c, http.StatusUnauthorized, serverCodeUnauthorized, "refresh token invalid")
		return
	}
	token, err := h.minter.mint(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, serverCodeInternalError, "failed to sign token")
		return
	}
	respondSuccess(c, gin.H{"token": token, "refreshToken": replacement})
}
