// internal/handlers/auth.go

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ArowuTest/entropy-backend/internal/auth"
	"github.com/ArowuTest/entropy-backend/internal/config"
	"github.com/ArowuTest/entropy-backend/internal/models"
)

// loginRequest defines JSON payload for login.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an operator account and returns a JWT.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload: " + err.Error()})
		return
	}

	var user models.AdminUser
	if err := config.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}
	if user.Status != models.StatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is " + string(user.Status)})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID.String(), user.Username, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
	})
}

// RequireAuth is a middleware that checks for a valid “Bearer” JWT.
// Pass in allowed roles for role‐based guarding (e.g. only ADMIN can change
// the paranoia level).
func RequireAuth(allowedRoles ...models.AdminUserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")
		claims, err := auth.ParseAndVerify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			return
		}
		if len(allowedRoles) > 0 {
			valid := false
			for _, r := range allowedRoles {
				if string(r) == claims.Role {
					valid = true
					break
				}
			}
			if !valid {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden for role: " + claims.Role})
				return
			}
		}
		// Make user info available downstream
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// BootstrapAdmin ensures the configured admin account exists. A blank
// username disables bootstrapping (e.g. accounts managed out of band).
func BootstrapAdmin(db *gorm.DB, username, password string) error {
	if username == "" {
		log.Println("no ADMIN_USERNAME configured; skipping admin bootstrap")
		return nil
	}
	var existing models.AdminUser
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.AdminUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("bootstrapped admin account %q", username)
	return nil
}
