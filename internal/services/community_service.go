package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/conectados/social-service/internal/dto"
	"github.com/conectados/social-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCommunityFieldsRequired = errors.New("name and category are required")
	ErrCommunityNotFound       = errors.New("community not found")
	ErrAlreadyMember           = errors.New("you are already a member of this community")
	ErrMembershipNotFound      = errors.New("you are not a member of this community")
	ErrCreatorCannotLeave      = errors.New("the creator cannot leave their own community")
	ErrNotCommunityAdmin       = errors.New("only the creator or an admin can edit this community")
	ErrNotCommunityCreator     = errors.New("only the creator can delete this community")
	ErrSearchTooShort          = errors.New("search query must be at least 2 characters")
)

// GroupSyncer mirrors community events to the external messaging service.
// Implementations must swallow failures: the local store is authoritative and
// the mirrored group state is a disposable replica.
type GroupSyncer interface {
	SyncCommunity(community *models.Community)
	SyncMemberJoin(communityID, profileID uuid.UUID)
	SyncMemberLeave(communityID, profileID uuid.UUID)
}

// CommunityService owns community and membership rows. The members_count
// counter is mutated in the same transaction as the membership row, so the two
// cannot drift on a crash between writes.
type CommunityService struct {
	db     *gorm.DB
	syncer GroupSyncer
}

func NewCommunityService(db *gorm.DB, syncer GroupSyncer) *CommunityService {
	return &CommunityService{db: db, syncer: syncer}
}

func marshalTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// Create inserts the community together with its creator-role membership and
// then mirrors both to the messaging service.
func (s *CommunityService) Create(creatorID uuid.UUID, req *dto.CreateCommunityRequest) (*models.Community, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, ErrCommunityFieldsRequired
	}

	community := models.Community{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     strings.TrimSpace(req.Category),
		Tags:         marshalTags(req.Tags),
		ImageURL:     req.ImageURL,
		MembersCount: 1,
		IsActive:     true,
	}
	membership := models.CommunityMember{
		ID:          uuid.New(),
		CommunityID: community.ID,
		UserID:      creatorID,
		Role:        models.CommunityRoleCreator,
		JoinedAt:    time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	s.syncer.SyncCommunity(&community)
	s.syncer.SyncMemberJoin(community.ID, creatorID)
	return &community, nil
}

func (s *CommunityService) findActive(communityID uuid.UUID) (*models.Community, error) {
	var community models.Community
	err := s.db.First(&community, "id = ? AND is_active = ?", communityID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to load community: %w", err)
	}
	return &community, nil
}

// Get returns an active community and the caller's membership, if any.
func (s *CommunityService) Get(communityID, userID uuid.UUID) (*models.Community, *models.CommunityMember, error) {
	community, err := s.findActive(communityID)
	if err != nil {
		return nil, nil, err
	}

	var membership models.CommunityMember
	err = s.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return community, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load membership: %w", err)
	}
	return community, &membership, nil
}

// Join adds a member-role row and bumps the counter atomically.
func (s *CommunityService) Join(communityID, userID uuid.UUID) error {
	community, err := s.findActive(communityID)
	if err != nil {
		return err
	}

	membership := models.CommunityMember{
		ID:          uuid.New(),
		CommunityID: community.ID,
		UserID:      userID,
		Role:        models.CommunityRoleMember,
		JoinedAt:    time.Now(),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
		return tx.Model(&models.Community{}).
			Where("id = ?", community.ID).
			UpdateColumn("members_count", gorm.Expr("members_count + ?", 1)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to join community: %w", err)
	}

	s.syncer.SyncMemberJoin(community.ID, userID)
	return nil
}

// Leave removes the membership and decrements the counter atomically. The
// creator cannot leave; they must delete the community instead.
func (s *CommunityService) Leave(communityID, userID uuid.UUID) error {
	community, err := s.findActive(communityID)
	if err != nil {
		return err
	}
	if community.CreatorID == userID {
		return ErrCreatorCannotLeave
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("community_id = ? AND user_id = ?", community.ID, userID).
			Delete(&models.CommunityMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMembershipNotFound
		}
		return tx.Model(&models.Community{}).
			Where("id = ?", community.ID).
			UpdateColumn("members_count", gorm.Expr("members_count - ?", 1)).Error
	})
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return err
		}
		return fmt.Errorf("failed to leave community: %w", err)
	}

	s.syncer.SyncMemberLeave(community.ID, userID)
	return nil
}

// Update edits community fields. Allowed for the creator and admins.
func (s *CommunityService) Update(communityID, userID uuid.UUID, req *dto.UpdateCommunityRequest) (*models.Community, error) {
	community, err := s.findActive(communityID)
	if err != nil {
		return nil, err
	}

	var membership models.CommunityMember
	err = s.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&membership).Error
	if err != nil || (membership.Role != models.CommunityRoleCreator && membership.Role != models.CommunityRoleAdmin) {
		return nil, ErrNotCommunityAdmin
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if strings.TrimSpace(req.Category) != "" {
		updates["category"] = strings.TrimSpace(req.Category)
	}
	if req.Tags != nil {
		updates["tags"] = marshalTags(req.Tags)
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(community).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update community: %w", err)
		}
	}
	return s.findActive(communityID)
}

// Delete soft-deletes the community. Creator only.
func (s *CommunityService) Delete(communityID, userID uuid.UUID) error {
	community, err := s.findActive(communityID)
	if err != nil {
		return err
	}
	if community.CreatorID != userID {
		return ErrNotCommunityCreator
	}
	if err := s.db.Model(community).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to delete community: %w", err)
	}
	return nil
}

// List returns active communities, newest first, with optional filters.
func (s *CommunityService) List(q *dto.CommunityListQuery) ([]models.Community, int64, error) {
	query := s.db.Model(&models.Community{}).Where("is_active = ?", true)
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		like := "%" + strings.TrimSpace(q.Search) + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var communities []models.Community
	if err := query.Order("created_at DESC").
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&communities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list communities: %w", err)
	}
	return communities, total, nil
}

// Search returns up to 20 active communities matching q, most members first.
func (s *CommunityService) Search(q, category string) ([]models.Community, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return nil, ErrSearchTooShort
	}

	like := "%" + q + "%"
	query := s.db.Where("is_active = ?", true).
		Where("name LIKE ? OR description LIKE ?", like, like)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var communities []models.Community
	if err := query.Order("members_count DESC").Limit(20).Find(&communities).Error; err != nil {
		return nil, fmt.Errorf("failed to search communities: %w", err)
	}
	return communities, nil
}

// Members lists a community's memberships, newest first.
func (s *CommunityService) Members(communityID uuid.UUID, page, limit int) ([]models.CommunityMember, int64, error) {
	if _, err := s.findActive(communityID); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.CommunityMember{}).Where("community_id = ?", communityID)
	var total int64
	query.Count(&total)

	var members []models.CommunityMember
	if err := query.Order("joined_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&members).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// UserCommunities lists the caller's memberships in active communities.
func (s *CommunityService) UserCommunities(userID uuid.UUID, page, limit int) ([]models.CommunityMember, int64, error) {
	base := s.db.Model(&models.CommunityMember{}).
		Joins("JOIN communities ON communities.id = community_members.community_id").
		Where("community_members.user_id = ? AND communities.is_active = ?", userID, true)

	var total int64
	base.Count(&total)

	var memberships []models.CommunityMember
	if err := base.Preload("Community").
		Order("community_members.joined_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&memberships).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list user communities: %w", err)
	}
	return memberships, total, nil
}
