package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// maxPathItems caps how many matched resources one generated path carries.
const maxPathItems = 5

type LearningPathService interface {
	GenerateForGap(ctx context.Context, gapID uuid.UUID, requestedBy *uuid.UUID) (*types.EmployeeLearningPath, error)
	GetByID(ctx context.Context, pathID uuid.UUID) (*types.EmployeeLearningPath, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*types.EmployeeLearningPath, error)
	UpdateStatus(ctx context.Context, pathID uuid.UUID, status types.LearningPathStatus) (*types.EmployeeLearningPath, error)
	UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status types.LearningItemStatus) (*types.EmployeeLearningPath, error)
	Delete(ctx context.Context, pathID uuid.UUID, deletedBy *uuid.UUID) error
	Recommendations(ctx context.Context, gapID uuid.UUID) ([]*types.LearningRecommendation, error)
}

type learningPathService struct {
	db           *gorm.DB
	log          *logger.Logger
	gapRepo      repos.SkillGapRepo
	resourceRepo repos.LearningResourceRepo
	pathRepo     repos.LearningPathRepo
	advisor      AIAdvisor
}

func NewLearningPathService(
	db *gorm.DB,
	log *logger.Logger,
	gapRepo repos.SkillGapRepo,
	resourceRepo repos.LearningResourceRepo,
	pathRepo repos.LearningPathRepo,
	advisor AIAdvisor,
) LearningPathService {
	serviceLog := log.With("service", "LearningPathService")
	return &learningPathService{
		db:           db,
		log:          serviceLog,
		gapRepo:      gapRepo,
		resourceRepo: resourceRepo,
		pathRepo:     pathRepo,
		advisor:      advisor,
	}
}

// GenerateForGap assembles a path from catalog resources that cover the climb
// from the gap's current level to its required level. Matching resources are
// ordered by the level they reach, then by effort, deduplicated, and capped.
// An empty catalog still yields a usable three-step generic path.
func (ls *learningPathService) GenerateForGap(ctx context.Context, gapID uuid.UUID, requestedBy *uuid.UUID) (*types.EmployeeLearningPath, error) {
	gap, err := ls.gapRepo.GetByID(ctx, nil, gapID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill gap")
		}
		return nil, fmt.Errorf("load gap: %w", err)
	}
	if gap.ResolvedAt != nil {
		return nil, apierr.Validation("gap is already resolved")
	}

	skillName := "the target skill"
	if gap.Skill != nil {
		skillName = gap.Skill.Name
	}

	matches, err := ls.resourceRepo.MatchForGap(ctx, nil, gap.SkillID, gap.CurrentLevel, gap.RequiredLevel)
	if err != nil {
		return nil, fmt.Errorf("match resources: %w", err)
	}
	items, totalHours := assemblePathItems(matches)

	aiGenerated := false
	if len(items) == 0 {
		items = genericPathItems(skillName, gap.RequiredLevel)
		for _, item := range items {
			totalHours += item.EstimatedHours
		}
		aiGenerated = true
	}

	insight, _ := ls.advisor.AnalyzeGap(ctx, skillName, gap)

	current := gap.CurrentLevel
	path := &types.EmployeeLearningPath{
		EmployeeID:          gap.EmployeeID,
		SkillGapID:          &gap.ID,
		TargetSkillID:       gap.SkillID,
		Title:               fmt.Sprintf("Reach %s in %s", gap.RequiredLevel.String(), skillName),
		Description:         fmt.Sprintf("Close a %d-level gap in %s.", gap.GapSize, skillName),
		CurrentLevel:        &current,
		TargetLevel:         gap.RequiredLevel,
		Status:              types.PathSuggested,
		EstimatedTotalHours: totalHours,
		IsAiGenerated:       aiGenerated,
		AiRationale:         insight.Recommendation,
	}
	path.CreatedBy = requestedBy

	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ls.pathRepo.Create(ctx, tx, path); err != nil {
			return fmt.Errorf("create path: %w", err)
		}
		for i := range items {
			items[i].LearningPathID = path.ID
			items[i].CreatedBy = requestedBy
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("create path items: %w", err)
			}
		}

		recs := make([]*types.LearningRecommendation, 0, len(items))
		for i, item := range items {
			rec := &types.LearningRecommendation{
				SkillGapID:         gap.ID,
				SkillID:            gap.SkillID,
				SkillName:          skillName,
				RecommendationType: item.ItemType,
				Title:              item.Title,
				Description:        item.Description,
				URL:                item.ExternalURL,
				EstimatedHours:     item.EstimatedHours,
				Rationale:          insight.Recommendation,
				DisplayOrder:       i + 1,
			}
			rec.CreatedBy = requestedBy
			recs = append(recs, rec)
		}
		if err := ls.pathRepo.SaveRecommendations(ctx, tx, recs); err != nil {
			return fmt.Errorf("save recommendations: %w", err)
		}

		now := time.Now().UTC()
		if !gap.IsAddressed {
			if err := ls.gapRepo.MarkAddressed(ctx, tx, gap.ID, now); err != nil {
				return fmt.Errorf("mark gap addressed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ls.log.Info("learning path generated",
		"path_id", path.ID, "gap_id", gapID, "items", len(items), "hours", totalHours, "generic", aiGenerated)
	return ls.pathRepo.GetByID(ctx, nil, path.ID)
}

// assemblePathItems orders matched catalog resources by the level they reach
// and then by effort, drops inactive and duplicate resources, and caps the
// plan at maxPathItems steps.
func assemblePathItems(matches []*types.LearningResourceSkill) ([]types.LearningPathItem, int) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ToLevel != matches[j].ToLevel {
			return matches[i].ToLevel < matches[j].ToLevel
		}
		ri, rj := matches[i].LearningResource, matches[j].LearningResource
		if ri == nil || rj == nil {
			return rj == nil
		}
		return ri.EstimatedHours < rj.EstimatedHours
	})

	seen := map[uuid.UUID]bool{}
	var items []types.LearningPathItem
	totalHours := 0
	for _, match := range matches {
		if match.LearningResource == nil || seen[match.LearningResourceID] {
			continue
		}
		if !match.LearningResource.IsActive {
			continue
		}
		seen[match.LearningResourceID] = true
		resource := match.LearningResource
		after := match.ToLevel
		resourceID := match.LearningResourceID
		items = append(items, types.LearningPathItem{
			LearningResourceID: &resourceID,
			Title:              resource.Title,
			Description:        resource.Description,
			ItemType:           resource.Type,
			DisplayOrder:       len(items) + 1,
			EstimatedHours:     resource.EstimatedHours,
			TargetLevelAfter:   &after,
			ExternalURL:        resource.URL,
			Status:             types.ItemNotStarted,
		})
		totalHours += resource.EstimatedHours
		if len(items) >= maxPathItems {
			break
		}
	}
	return items, totalHours
}

// genericPathItems is the fixed fallback plan used when no catalog resource
// covers the gap: study, practice, then validate. 40 hours total.
func genericPathItems(skillName string, target types.ProficiencyLevel) []types.LearningPathItem {
	after := target
	return []types.LearningPathItem{
		{
			Title:          fmt.Sprintf("Study %s fundamentals", skillName),
			Description:    fmt.Sprintf("Work through an introductory course or book on %s.", skillName),
			ItemType:       types.ResourceCourse,
			DisplayOrder:   1,
			EstimatedHours: 10,
			Status:         types.ItemNotStarted,
		},
		{
			Title:          fmt.Sprintf("Apply %s in a real task", skillName),
			Description:    fmt.Sprintf("Take on a work assignment that exercises %s, with support from a senior colleague.", skillName),
			ItemType:       types.ResourceProject,
			DisplayOrder:   2,
			EstimatedHours: 15,
			Status:         types.ItemNotStarted,
		},
		{
			Title:          fmt.Sprintf("Validate %s at level %s", skillName, target.String()),
			Description:    "Review progress with a mentor and complete a validating assessment.",
			ItemType:       types.ResourceMentorship,
			DisplayOrder:   3,
			EstimatedHours: 15,
			TargetLevelAfter: &after,
			Status:         types.ItemNotStarted,
		},
	}
}

func (ls *learningPathService) GetByID(ctx context.Context, pathID uuid.UUID) (*types.EmployeeLearningPath, error) {
	path, err := ls.pathRepo.GetByID(ctx, nil, pathID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("learning path")
		}
		return nil, err
	}
	return path, nil
}

func (ls *learningPathService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*types.EmployeeLearningPath, error) {
	return ls.pathRepo.ListByEmployee(ctx, nil, employeeID)
}

var pathTransitions = map[types.LearningPathStatus][]types.LearningPathStatus{
	types.PathSuggested:  {types.PathApproved, types.PathCancelled},
	types.PathApproved:   {types.PathInProgress, types.PathCancelled},
	types.PathInProgress: {types.PathCompleted, types.PathPaused, types.PathCancelled},
	types.PathPaused:     {types.PathInProgress, types.PathCancelled},
}

func (ls *learningPathService) UpdateStatus(ctx context.Context, pathID uuid.UUID, status types.LearningPathStatus) (*types.EmployeeLearningPath, error) {
	path, err := ls.pathRepo.GetByID(ctx, nil, pathID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("learning path")
		}
		return nil, err
	}

	allowed := false
	for _, next := range pathTransitions[path.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apierr.Validation(fmt.Sprintf("cannot move path from %s to %s", path.Status.String(), status.String()))
	}

	now := time.Now().UTC()
	path.Status = status
	path.LastActivityAt = &now
	if status == types.PathCompleted {
		path.ActualCompletionDate = &now
		path.ProgressPercentage = 100
	}
	return ls.pathRepo.Update(ctx, nil, path)
}

// UpdateItemStatus moves one step and recomputes the parent path's progress.
// Completing the final item completes the path.
func (ls *learningPathService) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status types.LearningItemStatus) (*types.EmployeeLearningPath, error) {
	item, err := ls.pathRepo.GetItem(ctx, nil, itemID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("learning path item")
		}
		return nil, err
	}

	now := time.Now().UTC()
	var pathID uuid.UUID
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item.Status = status
		switch status {
		case types.ItemInProgress:
			if item.StartedAt == nil {
				item.StartedAt = &now
			}
		case types.ItemCompleted:
			if item.StartedAt == nil {
				item.StartedAt = &now
			}
			item.CompletedAt = &now
		}
		if _, err := ls.pathRepo.UpdateItem(ctx, tx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		path, err := ls.pathRepo.GetByID(ctx, tx, item.LearningPathID)
		if err != nil {
			return fmt.Errorf("load path: %w", err)
		}
		pathID = path.ID

		done := 0
		countable := 0
		for _, it := range path.Items {
			if it.Status == types.ItemSkipped {
				continue
			}
			countable++
			if it.Status == types.ItemCompleted {
				done++
			}
		}
		if countable > 0 {
			path.ProgressPercentage = done * 100 / countable
		}
		path.LastActivityAt = &now
		if countable > 0 && done == countable && path.Status != types.PathCompleted {
			path.Status = types.PathCompleted
			path.ActualCompletionDate = &now
			path.ProgressPercentage = 100
		} else if path.Status == types.PathApproved && status == types.ItemInProgress {
			path.Status = types.PathInProgress
		}
		_, err = ls.pathRepo.Update(ctx, tx, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ls.pathRepo.GetByID(ctx, nil, pathID)
}

func (ls *learningPathService) Delete(ctx context.Context, pathID uuid.UUID, deletedBy *uuid.UUID) error {
	if err := ls.pathRepo.SoftDelete(ctx, nil, pathID, deletedBy); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("learning path")
		}
		return err
	}
	return nil
}

func (ls *learningPathService) Recommendations(ctx context.Context, gapID uuid.UUID) ([]*types.LearningRecommendation, error) {
	return ls.pathRepo.ListRecommendations(ctx, nil, gapID)
}
