package services

import (
	"context"
	"errors"
	"strings"

	"dernek-backend/internal/auth"
	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
)

var (
	ErrEmailTaken         = errors.New("a member with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type MemberService struct {
	Repo       *repositories.MemberRepository
	JWTManager *auth.JWTManager
}

func NewMemberService(repo *repositories.MemberRepository, jwtManager *auth.JWTManager) *MemberService {
	return &MemberService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// Signup registers a self-service member account with the default role
func (s *MemberService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	if existing, _ := s.Repo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         models.RoleMember,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, member); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(member)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Member: member}, nil
}

// Login authenticates a member. The handler layer decides whether to swap
// the full token for a 2FA challenge.
func (s *MemberService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	member, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(member.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !member.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.JWTManager.GenerateToken(member)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Member: member}, nil
}

// CreateMember is the admin registry path; unlike Signup it accepts role and
// contact fields
func (s *MemberService) CreateMember(ctx context.Context, req *models.CreateMemberRequest) (*models.Member, error) {
	if req.Email == "" || req.Name == "" {
		return nil, errors.New("name and email are required")
	}
	if existing, _ := s.Repo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	member := &models.Member{
		Name:     req.Name,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     role,
		IsActive: true,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		member.PasswordHash = hash
	}
	if err := s.Repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) GetMember(ctx context.Context, id int) (*models.Member, error) {
	return s.Repo.Get(ctx, id)
}

func (s *MemberService) ListMembers(ctx context.Context, search string) ([]*models.Member, error) {
	return s.Repo.List(ctx, search)
}

func (s *MemberService) UpdateMember(ctx context.Context, id int, req *models.UpdateMemberRequest) (*models.Member, error) {
	member, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if req.Name != "" {
		member.Name = req.Name
	}
	if req.Email != "" {
		member.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	member.Phone = req.Phone
	member.Address = req.Address
	if req.Role != "" {
		member.Role = req.Role
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		member.PasswordHash = hash
	}

	if err := s.Repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) DeleteMember(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
