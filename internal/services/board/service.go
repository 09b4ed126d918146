// Package board implements all operations on one task item's kanban board:
// stages, cards, notes, and the history entries those mutations produce.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dkarpov/plank/internal/database"
	"github.com/dkarpov/plank/internal/events"
	"github.com/dkarpov/plank/internal/models"
	"github.com/dkarpov/plank/internal/types"
)

// Service defines all board-related business operations. Every operation
// addresses a board by the owning project and task item.
type Service interface {
	// Open returns the item's board, materializing the default stages on
	// first open.
	Open(ctx context.Context, projectID, itemID types.ID) (*models.BoardState, error)

	// Stages
	CreateStage(ctx context.Context, req CreateStageRequest) (*models.Stage, error)
	UpdateStage(ctx context.Context, req UpdateStageRequest) error
	DeleteStage(ctx context.Context, projectID, itemID, stageID types.ID) error

	// Cards
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, projectID, itemID, taskID types.ID) error
	ToggleCardType(ctx context.Context, projectID, itemID, taskID types.ID, ct models.CardType) (*models.Task, error)

	// Notes
	AddNote(ctx context.Context, req AddNoteRequest) (*models.Note, error)
	UpdateNote(ctx context.Context, req UpdateNoteRequest) error
	DeleteNote(ctx context.Context, projectID, itemID, taskID, noteID types.ID) error
}

// CreateStageRequest encapsulates data for creating a stage
type CreateStageRequest struct {
	ProjectID types.ID
	ItemID    types.ID
	Name      string
	Color     string
}

// UpdateStageRequest encapsulates data for updating a stage.
// Pointer fields are optional - nil means don't update.
type UpdateStageRequest struct {
	ProjectID types.ID
	ItemID    types.ID
	StageID   types.ID
	Name      *string
	Color     *string
}

// CreateTaskRequest encapsulates data for creating a card
type CreateTaskRequest struct {
	ProjectID types.ID
	ItemID    types.ID
	StageID   types.ID
	Title     string
	CardTypes []models.CardType
}

// UpdateTaskRequest encapsulates data for updating a card.
// Pointer fields are optional - nil means don't update.
type UpdateTaskRequest struct {
	ProjectID   types.ID
	ItemID      types.ID
	TaskID      types.ID
	Title       *string
	Description *string
	StageID     *types.ID
	CardTypes   *[]models.CardType
}

// AddNoteRequest encapsulates data for adding a note to a card
type AddNoteRequest struct {
	ProjectID types.ID
	ItemID    types.ID
	TaskID    types.ID
	Title     string
	Content   string
}

// UpdateNoteRequest encapsulates data for updating a note
type UpdateNoteRequest struct {
	ProjectID types.ID
	ItemID    types.ID
	TaskID    types.ID
	NoteID    types.ID
	Title     string
	Content   string
}

// defaultStage describes one of the stages materialized on first open.
type defaultStage struct {
	name  string
	color string
}

var defaultStages = []defaultStage{
	{"To Do", "#e09f7d"},
	{"In Progress", "#f4c77e"},
	{"Testing", "#b8a5e0"},
	{"Done", "#9bc9a3"},
}

// untitledNote is the fallback title for notes created without one.
const untitledNote = "Untitled"

// service implements Service interface
type service struct {
	repo     database.DataStore
	notifier events.Publisher
}

// NewService creates a new board service
func NewService(repo database.DataStore, notifier events.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

// load resolves the project, the task item, and its board. The board must
// already exist; Open is the only path that materializes one.
func (s *service) load(ctx context.Context, projectID, itemID types.ID) (*models.Project, *models.TaskItem, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get project: %w", err)
	}

	item := project.FindTaskItem(itemID)
	if item == nil {
		return nil, nil, ErrItemNotFound
	}
	if item.Board == nil {
		return nil, nil, ErrBoardNotOpened
	}
	return project, item, nil
}

// save persists the whole aggregate, bumping the item's and the project's
// updatedAt. The board document is one row, so the save is atomic.
func (s *service) save(ctx context.Context, project *models.Project, item *models.TaskItem) error {
	now := time.Now()
	item.UpdatedAt = now
	project.UpdatedAt = now

	if err := s.repo.PutProject(ctx, project); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}

	events.PublishChange(s.notifier, project.ID)
	return nil
}

// appendHistory persists one audit entry for a card.
func (s *service) appendHistory(ctx context.Context, taskID types.ID, op models.Operation, description string) error {
	entry := &models.HistoryEntry{
		ID:          types.NewID(),
		TaskID:      taskID,
		Operation:   op,
		Description: description,
		Timestamp:   time.Now(),
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Open returns the item's board. A missing board, or a board without
// stages, is replaced by the default one: four fixed stages and no cards.
func (s *service) Open(ctx context.Context, projectID, itemID types.ID) (*models.BoardState, error) {
	project, err := s.repo.GetProjectByID(ctx, projectID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	item := project.FindTaskItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	if item.Board != nil && len(item.Board.Stages) > 0 {
		return item.Board, nil
	}

	board := &models.BoardState{
		Stages:  make([]models.Stage, 0, len(defaultStages)),
		Tasks:   []models.Task{},
		History: []models.HistoryEntry{},
	}
	for i, def := range defaultStages {
		board.Stages = append(board.Stages, models.Stage{
			ID:    types.NewID(),
			Name:  def.name,
			Color: def.color,
			Order: i,
		})
	}
	item.Board = board

	if err := s.save(ctx, project, item); err != nil {
		return nil, err
	}
	return board, nil
}

// CreateStage appends a new stage after the current last one.
func (s *service) CreateStage(ctx context.Context, req CreateStageRequest) (*models.Stage, error) {
	project, item, err := s.load(ctx, req.ProjectID, req.ItemID)
	if err != nil {
		return nil, err
	}
	board := item.Board

	maxOrder := -1
	for i := range board.Stages {
		if board.Stages[i].Order > maxOrder {
			maxOrder = board.Stages[i].Order
		}
	}

	stage := models.Stage{
		ID:    types.NewID(),
		Name:  req.Name,
		Color: req.Color,
		Order: maxOrder + 1,
	}
	board.Stages = append(board.Stages, stage)

	if err := s.save(ctx, project, item); err != nil {
		return nil, err
	}
	return &board.Stages[len(board.Stages)-1], nil
}

// UpdateStage merges the provided fields into the stage.
func (s *service) UpdateStage(ctx context.Context, req UpdateStageRequest) error {
	project, item, err := s.load(ctx, req.ProjectID, req.ItemID)
	if err != nil {
		return err
	}

	stage := item.Board.FindStage(req.StageID)
	if stage == nil {
		return ErrStageNotFound
	}

	if req.Name != nil {
		stage.Name = *req.Name
	}
	if req.Color != nil {
		stage.Color = *req.Color
	}

	return s.save(ctx, project, item)
}

// DeleteStage removes a stage and cascades to every card on it. Cards go
// first (one task_deleted entry each), then the stage, then the survivors
// are renumbered to 0..n-1 in their existing relative order, so a partial
// failure never leaves a card pointing at a removed stage.
func (s *service) DeleteStage(ctx context.Context, projectID, itemID, stageID types.ID) error {
	project, item, err := s.load(ctx, projectID, itemID)
	if err != nil {
		return err
	}
	board := item.Board

	if board.FindStage(stageID) == nil {
		return ErrStageNotFound
	}

	keptTasks := board.Tasks[:0]
	for i := range board.Tasks {
		task := &board.Tasks[i]
		if task.StageID != stageID {
			keptTasks = append(keptTasks, *task)
			continue
		}
		desc := fmt.Sprintf("Card %q deleted together with its stage", task.Title)
		if err := s.appendHistory(ctx, task.ID, models.OpTaskDeleted, desc); err != nil {
			return err
		}
	}
	board.Tasks = keptTasks

	keptStages := board.Stages[:0]
	for i := range board.Stages {
		if board.Stages[i].ID != stageID {
			keptStages = append(keptStages, board.Stages[i])
		}
	}
	board.Stages = keptStages

	// Renumber to a dense 0-based sequence, preserving relative order.
	sort.SliceStable(board.Stages, func(i, j int) bool {
		return board.Stages[i].Order < board.Stages[j].Order
	})
	for i := range board.Stages {
		board.Stages[i].Order = i
	}

	return s.save(ctx, project, item)
}

// CreateTask places a new card on the given stage and records its creation.
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	cardTypes, err := normalizeCardTypes(req.CardTypes)
	if err != nil {
		return nil, err
	}

	project, item, err := s.load(ctx, req.ProjectID, req.ItemID)
	if err != nil {
		return nil, err
	}
	board := item.Board

	if board.FindStage(req.StageID) == nil {
		return nil, ErrStageNotFound
	}

	now := time.Now()
	task := models.Task{
		ID:        types.NewID(),
		Title:     req.Title,
		StageID:   req.StageID,
		CardTypes: cardTypes,
		Notes:     []models.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	board.Tasks = append(board.Tasks, task)

	if err := s.save(ctx, project, item); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Card %q created", task.Title)
	if err := s.appendHistory(ctx, task.ID, models.OpTaskCreated, desc); err != nil {
		return nil, err
	}

	return &board.Tasks[len(board.Tasks)-1], nil
}

// UpdateTask merges the provided fields into the card. A stage change
// records one task_moved entry naming the prior title and the destination
// stage; a title change records one task_updated entry with both titles.
// Both can come from a single call.
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error) {
	var cardTypes []models.CardType
	if req.CardTypes != nil {
		normalized, err := normalizeCardTypes(*req.CardTypes)
		if err != nil {
			return nil, err
		}
		cardTypes = normalized
	}

	project, item, err := s.load(ctx, req.ProjectID, req.ItemID)
	if err != nil {
		return nil, err
	}
	board := item.Board

	task := board.FindTask(req.TaskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	oldTitle := task.Title

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.CardTypes != nil {
		task.CardTypes = cardTypes
	}

	if req.StageID != nil && *req.StageID != task.StageID {
		// The destination may be unresolvable (stage deleted between the
		// caller's read and this call); the move still happens, with a
		// placeholder in the audit entry.
		destName := "unknown stage"
		if dest := board.FindStage(*req.StageID); dest != nil {
			destName = dest.Name
		}
		task.StageID = *req.StageID

		desc := fmt.Sprintf("Card %q moved to %q", oldTitle, destName)
		if err := s.appendHistory(ctx, task.ID, models.OpTaskMoved, desc); err != nil {
			return nil, err
		}
	}

	if req.Title != nil && *req.Title != oldTitle {
		desc := fmt.Sprintf("Title changed from %q to %q", oldTitle, *req.Title)
		if err := s.appendHistory(ctx, task.ID, models.OpTaskUpdated, desc); err != nil {
			return nil, err
		}
	}

	task.UpdatedAt = time.Now()
	if err := s.save(ctx, project, item); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask records the deletion, then removes the card. Its notes are
// embedded, so they go with it.
func (s *service) DeleteTask(ctx context.Context, projectID, itemID, taskID types.ID) error {
	project, item, err := s.load(ctx, projectID, itemID)
	if err != nil {
		return err
	}
	board := item.Board

	task := board.FindTask(taskID)
	if task == nil {
		return ErrTaskNotFound
	}

	desc := fmt.Sprintf("Card %q deleted", task.Title)
	if err := s.appendHistory(ctx, taskID, models.OpTaskDeleted, desc); err != nil {
		return err
	}

	kept := board.Tasks[:0]
	for i := range board.Tasks {
		if board.Tasks[i].ID != taskID {
			kept = append(kept, board.Tasks[i])
		}
	}
	board.Tasks = kept

	return s.save(ctx, project, item)
}

// ToggleCardType adds the type to the card if absent, removes it if
// present. This is where the set-like deduplication of CardTypes lives.
func (s *service) ToggleCardType(ctx context.Context, projectID, itemID, taskID types.ID, ct models.CardType) (*models.Task, error) {
	if !models.ValidCardType(ct) {
		return nil, ErrInvalidCardType
	}

	project, item, err := s.load(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}

	task := item.Board.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if task.HasCardType(ct) {
		kept := task.CardTypes[:0]
		for _, existing := range task.CardTypes {
			if existing != ct {
				kept = append(kept, existing)
			}
		}
		task.CardTypes = kept
	} else {
		task.CardTypes = append(task.CardTypes, ct)
	}

	task.UpdatedAt = time.Now()
	if err := s.save(ctx, project, item); err != nil {
		return nil, err
	}
	return task, nil
}

// AddNote appends a note to the card. The note number in the audit entry is
// the note's 1-based position at the time of the operation, derived, never
// stored.
func (s *service) AddNote(ctx context.Context, req AddNoteRequest) (*models.Note, error) {
	project, item, err := s.load(ctx, req.ProjectID, req.ItemID)
	if err != nil {
		return nil, err
	}

	task := item.Board.FindTask(req.TaskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	title := req.Title
	if title == "" {
		title = untitledNote
	}

	noteNumber := len(task.Notes) + 1
	note := models.Note{
		ID:        types.NewID(),
		Title:     title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	task.Notes = append(task.Notes, note)
	task.UpdatedAt = time.Now()

	if err := s.save(ctx, project, item); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Added note #%d", noteNumber)
	if err := s.appendHistory(ctx, req.TaskID, models.OpNoteAdded, desc); err != nil {
		return nil, err
	}

	return &task.Notes[len(task.Notes)-1], nil
}

// UpdateNote replaces the note's title and content.
func (s *service) UpdateNote(ctx context.Context, req UpdateNoteRequest) error {
	project, item, err := s.load(ctx, req.ProjectID, req.ItemID)
	if err != nil {
		return err
	}

	task := item.Board.FindTask(req.TaskID)
	if task == nil {
		return ErrTaskNotFound
	}

	noteNumber := task.NotePosition(req.NoteID)
	if noteNumber == 0 {
		return ErrNoteNotFound
	}

	title := req.Title
	if title == "" {
		title = untitledNote
	}

	note := &task.Notes[noteNumber-1]
	note.Title = title
	note.Content = req.Content
	task.UpdatedAt = time.Now()

	if err := s.save(ctx, project, item); err != nil {
		return err
	}

	desc := fmt.Sprintf("Updated note #%d", noteNumber)
	return s.appendHistory(ctx, req.TaskID, models.OpNoteUpdated, desc)
}

// DeleteNote removes the note; later notes shift down one position.
func (s *service) DeleteNote(ctx context.Context, projectID, itemID, taskID, noteID types.ID) error {
	project, item, err := s.load(ctx, projectID, itemID)
	if err != nil {
		return err
	}

	task := item.Board.FindTask(taskID)
	if task == nil {
		return ErrTaskNotFound
	}

	noteNumber := task.NotePosition(noteID)
	if noteNumber == 0 {
		return ErrNoteNotFound
	}

	task.Notes = append(task.Notes[:noteNumber-1], task.Notes[noteNumber:]...)
	task.UpdatedAt = time.Now()

	if err := s.save(ctx, project, item); err != nil {
		return err
	}

	desc := fmt.Sprintf("Deleted note #%d", noteNumber)
	return s.appendHistory(ctx, taskID, models.OpNoteDeleted, desc)
}

// normalizeCardTypes validates the list and drops duplicates, preserving
// first-seen order.
func normalizeCardTypes(cardTypes []models.CardType) ([]models.CardType, error) {
	out := make([]models.CardType, 0, len(cardTypes))
	seen := make(map[models.CardType]bool, len(cardTypes))
	for _, ct := range cardTypes {
		if !models.ValidCardType(ct) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCardType, ct)
		}
		if seen[ct] {
			continue
		}
		seen[ct] = true
		out = append(out, ct)
	}
	return out, nil
}
