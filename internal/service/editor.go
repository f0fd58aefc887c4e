package service

import (
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/planio"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultSessionTTL = 2 * time.Hour

// Session is one admin's working copy of a plan. tree is what the admin
// sees; snapshot is what the store is known to hold, or nil when nothing is.
type Session struct {
	ID     string `json:"id"`
	PlanID string `json:"planId"`
	Owner  string `json:"owner"`

	mu       sync.Mutex
	tree     *plantree.Tree
	snapshot *plantree.Tree
	touched  time.Time
	// exportKey is the object holding the latest export, if uploaded.
	exportKey string
}

// View runs fn with the session locked. fn must not keep the tree.
func (s *Session) View(fn func(tree *plantree.Tree, changes *plantree.Changes)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tree, plantree.Diff(s.tree, s.snapshot))
}

// ExportResult is a rendered plan file and, when object storage is
// configured, where a copy can be downloaded from.
type ExportResult struct {
	FileName    string `json:"fileName"`
	Data        []byte `json:"-"`
	ObjectKey   string `json:"objectKey,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// Editor keeps the editing sessions of the API.
type Editor interface {
	Open(ctx context.Context, owner, planID string) (*Session, error)
	OpenNew(owner, name, description string) (*Session, error)
	Get(sessionID, owner string) (*Session, error)
	// Edit applies fn to the working tree. The tree is left as fn leaves
	// it, so fn should fail before mutating.
	Edit(sessionID, owner string, fn func(tree *plantree.Tree) error) error
	Save(ctx context.Context, sessionID, owner string) (*SaveResult, error)
	// Import replaces the working tree with the contents of a plan file.
	Import(ctx context.Context, sessionID, owner, filename string, r io.Reader) error
	Export(ctx context.Context, sessionID, owner string) (*ExportResult, error)
	Discard(sessionID, owner string) error
	// Sweep drops sessions idle since before now minus the TTL and deletes
	// uploaded exports nobody can download any more.
	Sweep(ctx context.Context, now time.Time) int
}

type EditorOption func(*editor)

func WithSessionTTL(ttl time.Duration) EditorOption {
	return func(e *editor) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

func WithImportLimit(maxBytes int64) EditorOption {
	return func(e *editor) { e.maxImport = maxBytes }
}

// WithExportStorage uploads every export under prefix and returns a
// presigned download URL alongside the file. An upload is deleted once it
// has been superseded or its session ended and its link has expired.
func WithExportStorage(fs storage.FileStorage, prefix string, expiry time.Duration) EditorOption {
	return func(e *editor) {
		e.files = fs
		e.exportPrefix = prefix
		e.presignExpiry = expiry
	}
}

func WithEditorClock(now func() time.Time) EditorOption {
	return func(e *editor) { e.now = now }
}

type editor struct {
	plans    PlanService
	notifier notify.Notifier
	log      *zap.Logger

	ttl           time.Duration
	maxImport     int64
	files         storage.FileStorage
	exportPrefix  string
	presignExpiry time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	retired  []retiredExport
}

type retiredExport struct {
	key string
	at  time.Time
}

func NewEditor(plans PlanService, notifier notify.Notifier, log *zap.Logger, opts ...EditorOption) Editor {
	e := &editor{
		plans:     plans,
		notifier:  notifier,
		log:       log.Named("editor"),
		ttl:       DefaultSessionTTL,
		maxImport: planio.DefaultMaxBytes,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *editor) Open(ctx context.Context, owner, planID string) (*Session, error) {
	tree, err := e.plans.Load(ctx, planID)
	if err != nil {
		return nil, err
	}
	return e.register(owner, tree, tree.Clone()), nil
}

func (e *editor) OpenNew(owner, name, description string) (*Session, error) {
	tree, err := e.plans.Create(name, description)
	if err != nil {
		return nil, err
	}
	return e.register(owner, tree, nil), nil
}

func (e *editor) register(owner string, tree, snapshot *plantree.Tree) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		PlanID:   tree.PlanID,
		Owner:    owner,
		tree:     tree,
		snapshot: snapshot,
		touched:  e.now(),
	}
	e.mu.Lock()
	e.sessions[s.ID] = s
	e.mu.Unlock()
	e.log.Debug("session opened", zap.String("sessionId", s.ID), zap.String("planId", s.PlanID), zap.String("owner", owner))
	return s
}

// Get returns a live session belonging to owner. Sessions of other admins
// are reported as missing.
func (e *editor) Get(sessionID, owner string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[sessionID]
	if !ok || s.Owner != owner {
		return nil, ErrSessionNotFound
	}
	now := e.now()
	s.mu.Lock()
	expired := now.Sub(s.touched) > e.ttl
	if !expired {
		s.touched = now
	}
	s.mu.Unlock()
	if expired {
		e.dropLocked(s)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (e *editor) Edit(sessionID, owner string, fn func(tree *plantree.Tree) error) error {
	s, err := e.Get(sessionID, owner)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.tree)
}

// Save pushes the working tree. The snapshot only moves forward when every
// write succeeded; after a failure the identities the store did assign are
// already on the tree, so the next attempt updates instead of duplicating.
func (e *editor) Save(ctx context.Context, sessionID, owner string) (*SaveResult, error) {
	s, err := e.Get(sessionID, owner)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result, err := e.plans.Save(ctx, s.tree, s.snapshot)
	s.PlanID = s.tree.PlanID
	if err != nil {
		return result, err
	}
	s.snapshot = s.tree.Clone()
	return result, nil
}

func (e *editor) Import(ctx context.Context, sessionID, owner, filename string, r io.Reader) error {
	s, err := e.Get(sessionID, owner)
	if err != nil {
		return err
	}
	doc, err := planio.Read(filename, r, e.maxImport)
	if err != nil {
		e.notifyImportError(err)
		return err
	}
	library, err := e.plans.Library(ctx)
	if err != nil {
		e.notifier.Error("Failed to import plan")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	planID := ""
	if !s.tree.IsNew() {
		planID = s.tree.PlanID
	}
	tree, err := planio.Build(doc, planID, library)
	if err != nil {
		e.notifyImportError(err)
		return err
	}
	// Every node is new now; the next save replaces what the store holds.
	s.tree = tree
	s.snapshot = nil
	s.PlanID = tree.PlanID
	weeks, days, workouts := tree.Counts()
	e.log.Info("plan imported",
		zap.String("sessionId", s.ID),
		zap.String("file", filename),
		zap.Int("weeks", weeks),
		zap.Int("days", days),
		zap.Int("workouts", workouts))
	e.notifier.Success("Plan imported successfully! Remember to save your changes.")
	return nil
}

func (e *editor) notifyImportError(err error) {
	var verr *planio.ValidationError
	switch {
	case errors.As(err, &verr):
		e.notifier.Error("Invalid plan file: " + verr.Error())
	case errors.Is(err, planio.ErrNotJSON):
		e.notifier.Error("Please select a JSON file")
	case errors.Is(err, planio.ErrFileTooLarge):
		e.notifier.Error("File is too large")
	default:
		e.notifier.Error("Failed to import plan")
	}
}

func (e *editor) Export(ctx context.Context, sessionID, owner string) (*ExportResult, error) {
	s, err := e.Get(sessionID, owner)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	doc := planio.Export(s.tree)
	s.mu.Unlock()

	data, err := planio.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	out := &ExportResult{FileName: planio.FileName(doc.Name), Data: data}
	if e.files == nil {
		return out, nil
	}

	out.ObjectKey = fmt.Sprintf("%s%s/%d-%s", e.exportPrefix, doc.ID, e.now().Unix(), out.FileName)
	if err := e.files.PutObject(ctx, out.ObjectKey, "application/json", data); err != nil {
		e.log.Error("export upload failed", zap.String("key", out.ObjectKey), zap.Error(err))
		return nil, fmt.Errorf("upload export: %w", err)
	}
	if out.DownloadURL, err = e.files.GeneratePresignedDownloadURL(ctx, out.ObjectKey, e.presignExpiry); err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.mu.Lock()
	prev := s.exportKey
	s.exportKey = out.ObjectKey
	s.mu.Unlock()
	if prev != "" {
		e.mu.Lock()
		e.retired = append(e.retired, retiredExport{key: prev, at: e.now()})
		e.mu.Unlock()
	}
	return out, nil
}

func (e *editor) Discard(sessionID, owner string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[sessionID]
	if !ok || s.Owner != owner {
		return ErrSessionNotFound
	}
	e.dropLocked(s)
	return nil
}

// dropLocked forgets a session and queues its export for deletion. e.mu must
// be held.
func (e *editor) dropLocked(s *Session) {
	delete(e.sessions, s.ID)
	s.mu.Lock()
	key := s.exportKey
	s.exportKey = ""
	s.mu.Unlock()
	if key != "" {
		e.retired = append(e.retired, retiredExport{key: key, at: e.now()})
	}
}

func (e *editor) Sweep(ctx context.Context, now time.Time) int {
	e.mu.Lock()
	n := 0
	for _, s := range e.sessions {
		s.mu.Lock()
		idle := now.Sub(s.touched)
		s.mu.Unlock()
		if idle > e.ttl {
			e.dropLocked(s)
			n++
		}
	}
	var due []retiredExport
	kept := e.retired[:0]
	for _, r := range e.retired {
		if now.Sub(r.at) >= e.presignExpiry {
			due = append(due, r)
		} else {
			kept = append(kept, r)
		}
	}
	e.retired = kept
	e.mu.Unlock()

	if n > 0 {
		e.log.Info("expired editing sessions dropped", zap.Int("count", n))
	}
	e.deleteExports(ctx, due)
	return n
}

// deleteExports removes retired uploads. Failures are retried on the next
// sweep.
func (e *editor) deleteExports(ctx context.Context, due []retiredExport) {
	if e.files == nil || len(due) == 0 {
		return
	}
	var failed []retiredExport
	for _, r := range due {
		if err := e.files.DeleteObject(ctx, r.key); err != nil {
			e.log.Warn("failed to delete old export", zap.String("key", r.key), zap.Error(err))
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		e.mu.Lock()
		e.retired = append(e.retired, failed...)
		e.mu.Unlock()
	}
	e.log.Debug("old exports deleted", zap.Int("count", len(due)-len(failed)))
}
