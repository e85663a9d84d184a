package service

import (
	"encoding/json"
	"fmt"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/sanitize"
	"github.com/meilisearch/meilisearch-go"
)

const assignmentsIndex = "assignments"

// AssignmentIndex keeps a full text index of assignments.
type AssignmentIndex interface {
	IndexAssignment(assignment *entity.Assignment) error
	// SearchAssignmentIDs returns matching ids best match first. A non-nil
	// lecturerID limits hits to that lecturer's assignments.
	SearchAssignmentIDs(query string, lecturerID *uint, limit int64) ([]uint, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) AssignmentIndex {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"lecturer_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(assignmentsIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		logger.Log.WithError(err).Warn("failed to update assignments filterable attributes")
	}

	sortableAttrs := []string{"created_at", "deadline"}
	if _, err := s.client.Index(assignmentsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		logger.Log.WithError(err).Warn("failed to update assignments sortable attributes")
	}

	logger.Log.Info("meilisearch indexes initialized")
}

type meiliAssignmentDoc struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LecturerID  uint   `json:"lecturer_id"`
	Deadline    int64  `json:"deadline,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *meiliSearchService) IndexAssignment(assignment *entity.Assignment) error {
	doc := meiliAssignmentDoc{
		ID:          assignment.ID,
		Title:       sanitize.Text(assignment.Title),
		Description: sanitize.Text(assignment.Description),
		LecturerID:  assignment.LecturerID,
		CreatedAt:   assignment.CreatedAt.Unix(),
	}
	if assignment.Deadline != nil {
		doc.Deadline = assignment.Deadline.Unix()
	}

	primaryKey := "id"
	task, err := s.client.Index(assignmentsIndex).AddDocuments([]meiliAssignmentDoc{doc}, &primaryKey)
	if err != nil {
		return fmt.Errorf("failed to index assignment %d: %w", assignment.ID, err)
	}

	logger.Log.WithField("task_uid", task.TaskUID).Debugf("indexed assignment %d", assignment.ID)
	return nil
}

func (s *meiliSearchService) SearchAssignmentIDs(query string, lecturerID *uint, limit int64) ([]uint, error) {
	req := &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	}
	if lecturerID != nil {
		req.Filter = fmt.Sprintf("lecturer_id = %d", *lecturerID)
	}

	raw, err := s.client.Index(assignmentsIndex).SearchRaw(query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	var resp struct {
		Hits []struct {
			ID uint `json:"id"`
		} `json:"hits"`
	}
	if raw != nil {
		if err := json.Unmarshal(*raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode meilisearch hits: %w", err)
		}
	}

	ids := make([]uint, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
