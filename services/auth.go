package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Location is the browser position required to log in.
type Location struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

type LoginRequest struct {
	Name          string    `json:"name" binding:"required"`
	ContactNumber string    `json:"contact_number"`
	Email         string    `json:"email" binding:"required,email"`
	Password      string    `json:"password" binding:"required,min=6"`
	Location      *Location `json:"location"`
}

type RegisterRequest struct {
	Name          string `json:"name" binding:"required,min=2"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
}

type LoginResult struct {
	Token     string  `json:"token"`
	SessionID string  `json:"session_id"`
	Profile   Profile `json:"profile"`
}

// AuthService signs users in and opens sessions.
type AuthService struct {
	DB       *gorm.DB
	Sessions *SessionStore
}

func NewAuthService(db *gorm.DB, sessions *SessionStore) *AuthService {
	return &AuthService{DB: db, Sessions: sessions}
}

func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:          strings.TrimSpace(req.Name),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Email:         email,
		Password:      string(hashed),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	utils.InfoLogger.Printf("New user registered: %s", user.Email)
	return &user, nil
}

// Login needs a location fix. An unknown email is signed up on the spot,
// a known one must match its password.
func (s *AuthService) Login(req LoginRequest) (*LoginResult, error) {
	if req.Location == nil {
		return nil, ErrLocationRequired
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.Register(RegisterRequest{
			Name:          req.Name,
			ContactNumber: req.ContactNumber,
			Email:         email,
			Password:      req.Password,
		})
		if err != nil {
			return nil, err
		}
		user = *created
	case err != nil:
		return nil, err
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	session, err := s.Sessions.Create(&user.ID, req.Location.Latitude, req.Location.Longitude)
	if err != nil {
		return nil, err
	}

	profile := Profile{
		Name:          strings.TrimSpace(req.Name),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Email:         user.Email,
	}
	if profile.Name == "" {
		profile.Name = user.Name
	}
	if profile.ContactNumber == "" {
		profile.ContactNumber = user.ContactNumber
	}
	if err := s.Sessions.Put(session.ID, models.EntryLoggedInUser, profile); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(session.ID, user.ID)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Login successful for %s (session %s)", user.Email, session.ID)
	return &LoginResult{Token: token, SessionID: session.ID, Profile: profile}, nil
}

// Profile returns the session's remembered user.
func (s *AuthService) Profile(sessionID string) (*Profile, error) {
	var p Profile
	if err := s.Sessions.Load(sessionID, models.EntryLoggedInUser, &p); err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			return nil, err
		}
	}
	if p.Name == "" {
		p.Name = defaultCustomerName
	}
	return &p, nil
}
