// Package inmem holds map backed repositories for tests. They mirror the
// unique indexes of the real schema and return the same gorm errors.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"anoa.com/assignmenthub/internal/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uint]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
		if u.RegNumber != nil && user.RegNumber != nil && *u.RegNumber == *user.RegNumber {
			return gorm.ErrDuplicatedKey
		}
	}

	r.nextID++
	user.ID = r.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepository) FindByRegNumber(_ context.Context, regNumber string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.RegNumber != nil && *u.RegNumber == regNumber {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// Put stores u as is, for fixtures that need a specific state.
func (r *UserRepository) Put(u entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID > r.nextID {
		r.nextID = u.ID
	}
	r.users[u.ID] = u
}

type AssignmentRepository struct {
	mu          sync.Mutex
	nextID      uint
	assignments map[uint]entity.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{assignments: make(map[uint]entity.Assignment)}
}

func (r *AssignmentRepository) Create(_ context.Context, a *entity.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = r.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.assignments[a.ID] = *a
	return nil
}

func (r *AssignmentRepository) FindByID(_ context.Context, id uint) (*entity.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *AssignmentRepository) FindByIDs(_ context.Context, ids []uint) ([]entity.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.Assignment
	for _, id := range ids {
		if a, ok := r.assignments[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AssignmentRepository) FindAll(_ context.Context) ([]entity.Assignment, error) {
	return r.filter(func(entity.Assignment) bool { return true }), nil
}

func (r *AssignmentRepository) FindByLecturer(_ context.Context, lecturerID uint) ([]entity.Assignment, error) {
	return r.filter(func(a entity.Assignment) bool { return a.LecturerID == lecturerID }), nil
}

func (r *AssignmentRepository) Search(_ context.Context, query string, lecturerID *uint, limit int) ([]entity.Assignment, error) {
	q := strings.ToLower(query)
	out := r.filter(func(a entity.Assignment) bool {
		if lecturerID != nil && a.LecturerID != *lecturerID {
			return false
		}
		return strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Description), q)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AssignmentRepository) filter(keep func(entity.Assignment) bool) []entity.Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []entity.Assignment{}
	for _, a := range r.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type SubmissionRepository struct {
	mu          sync.Mutex
	nextID      uint
	nextFileID  uint
	submissions map[uint]entity.Submission
	superseded  []entity.SupersededFile

	// UpsertErr, when set, fails the next Upsert.
	UpsertErr error
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{submissions: make(map[uint]entity.Submission)}
}

func (r *SubmissionRepository) Upsert(_ context.Context, sub *entity.Submission) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.UpsertErr; err != nil {
		r.UpsertErr = nil
		return "", err
	}

	for id, existing := range r.submissions {
		if existing.StudentID != sub.StudentID || existing.AssignmentID != sub.AssignmentID {
			continue
		}
		replaced := existing.FilePath
		existing.FilePath = sub.FilePath
		existing.Grade = nil
		existing.Feedback = nil
		r.submissions[id] = existing
		if replaced != sub.FilePath {
			r.nextFileID++
			r.superseded = append(r.superseded, entity.SupersededFile{ID: r.nextFileID, FilePath: replaced, CreatedAt: time.Now().UTC()})
		}
		*sub = existing
		return replaced, nil
	}

	r.nextID++
	sub.ID = r.nextID
	r.submissions[sub.ID] = *sub
	return "", nil
}

func (r *SubmissionRepository) FindByID(_ context.Context, id uint) (*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *SubmissionRepository) FindByAssignment(_ context.Context, assignmentID uint) ([]entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []entity.Submission{}
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SubmissionRepository) FindByStudentAndAssignment(_ context.Context, studentID, assignmentID uint) (*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.submissions {
		if s.StudentID == studentID && s.AssignmentID == assignmentID {
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *SubmissionRepository) UpdateGrade(_ context.Context, id uint, grade int, feedback *string) (*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	g := grade
	s.Grade = &g
	s.Feedback = feedback
	r.submissions[id] = s
	return &s, nil
}

func (r *SubmissionRepository) FindSupersededFiles(_ context.Context, limit int) ([]entity.SupersededFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.superseded)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]entity.SupersededFile, n)
	copy(out, r.superseded[:n])
	return out, nil
}

func (r *SubmissionRepository) DeleteSupersededFile(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.superseded {
		if f.ID == id {
			r.superseded = append(r.superseded[:i], r.superseded[i+1:]...)
			return nil
		}
	}
	return nil
}

// Count returns the number of stored submissions.
func (r *SubmissionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}

type NotificationRepository struct {
	mu            sync.Mutex
	nextID        uint
	notifications []entity.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now().UTC()
	r.notifications = append(r.notifications, *n)
	return nil
}

// GetByUserID returns newest first, like the database query.
func (r *NotificationRepository) GetByUserID(_ context.Context, userID uint, limit, offset int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []entity.Notification{}
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].UserID == userID {
			out = append(out, r.notifications[i])
		}
	}
	if offset >= len(out) {
		return []entity.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkAsRead(_ context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *NotificationRepository) MarkAllAsRead(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, x := range r.notifications {
		if x.UserID == userID && !x.IsRead {
			n++
		}
	}
	return n, nil
}
