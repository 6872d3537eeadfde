package service

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/model"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
	minSearchLen   = 2
	searchLimit    = 10
)

// checkPassword enforces the length bcrypt can hash.
func checkPassword(password string) error {
	if len(password) < minPasswordLen {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	if len(password) > maxPasswordLen {
		return apperr.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordLen))
	}

	return nil
}

func (s *Service) Register(username, email, password string) (*model.User, error) {
	username = s.plain(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}

	if err := checkPassword(password); err != nil {
		return nil, err
	}

	existing, err := s.dbm.UserQuery().Email(email).One()
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if existing != nil {
		return nil, apperr.Conflict("user with this email already exists")
	}

	u := &model.User{Username: username, Email: email}

	if err := u.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.dbm.Create(u); err != nil {
		if database.IsDuplicate(err) {
			return nil, apperr.Conflict("user with this email already exists")
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user", u.ID, "username", u.Username)

	return u, nil
}

func (s *Service) Login(email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	u, err := s.dbm.UserQuery().Email(email).One()
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if !u.CheckPassword(password) {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	return u, nil
}

func (s *Service) GetUser(id uint) (*model.User, error) {
	u, err := s.dbm.UserQuery().Id(id).One()
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	return u, nil
}

// SearchUsers matches email or username, never returning the requester.
func (s *Service) SearchUsers(query string, requesterID uint) ([]*model.User, error) {
	query = strings.TrimSpace(query)

	if len([]rune(query)) < minSearchLen {
		return nil, apperr.Validation(fmt.Sprintf("search query must be at least %d characters", minSearchLen))
	}

	res, err := s.dbm.UserQuery().Search(query).Exclude(requesterID).Order("users.username").Limit(searchLimit).Get()
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return res, nil
}

type seedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// LoadUsersFile creates the users listed in a yaml file, but only into an empty users table.
func (s *Service) LoadUsersFile(name string) (int, error) {
	if name == "" {
		return 0, nil
	}

	n, err := s.dbm.UserQuery().Count()
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	if n > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}

		return 0, err
	}

	var users []*seedUser

	if err := yaml.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}

	created := 0

	for _, su := range users {
		if _, err := s.Register(su.Username, su.Email, su.Password); err != nil {
			s.logger.Warn("skip seed user", "email", su.Email, "error", err.Error())
			continue
		}

		created++
	}

	s.logger.Info(fmt.Sprintf("loaded %d users from %s", created, name))

	return created, nil
}

// ResetPassword sets a new password for the user with the given email.
func (s *Service) ResetPassword(email, password string) (*model.User, error) {
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	u, err := s.dbm.UserQuery().Email(strings.ToLower(strings.TrimSpace(email))).One()
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if u == nil {
		return nil, apperr.NotFound("user not found")
	}

	if err := u.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.dbm.Save(u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	return u, nil
}

// ListUsers returns all users ordered by id.
func (s *Service) ListUsers() ([]*model.User, error) {
	return s.dbm.UserQuery().Order("users.id").Limit(0).Get()
}
