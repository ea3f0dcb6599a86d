package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"carenet/internal/domain/careteam"
	"carenet/internal/domain/conversation"
	"carenet/internal/domain/job"
	"carenet/internal/domain/message"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

func runInline(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) next() time.Time {
	if c.t.IsZero() {
		c.t = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	}
	c.t = c.t.Add(time.Second)
	return c.t
}

type chatStore struct {
	mu            sync.Mutex
	clock         fakeClock
	conversations map[uuid.UUID]conversation.Conversation
	messages      []message.Message
	names         map[uuid.UUID]string
}

func newChatStore() *chatStore {
	return &chatStore{
		conversations: map[uuid.UUID]conversation.Conversation{},
		names:         map[uuid.UUID]string{},
	}
}

type fakeConversations struct{ s *chatStore }

func (f fakeConversations) GetOrCreate(_ context.Context, a, b uuid.UUID) (uuid.UUID, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if a == b {
		return uuid.Nil, conversation.ErrSelfPairing
	}
	for _, c := range f.s.conversations {
		if (c.User1ID == a && c.User2ID == b) || (c.User1ID == b && c.User2ID == a) {
			return c.ID, nil
		}
	}
	now := f.s.clock.next()
	c := conversation.Conversation{ID: uuid.New(), User1ID: a, User2ID: b, CreatedAt: now, UpdatedAt: now}
	f.s.conversations[c.ID] = c
	return c.ID, nil
}

func (f fakeConversations) GetByID(_ context.Context, id uuid.UUID) (conversation.Conversation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.conversations[id]
	if !ok {
		return conversation.Conversation{}, conversation.ErrNotFound
	}
	return c, nil
}

func (f fakeConversations) ListForUser(_ context.Context, userID uuid.UUID) ([]conversation.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]conversation.Summary, 0)
	for _, c := range f.s.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		unread := 0
		for _, m := range f.s.messages {
			if m.ConversationID == c.ID && m.SenderID != userID && !m.IsRead {
				unread++
			}
		}
		other := c.OtherParticipant(userID)
		out = append(out, conversation.Summary{
			Conversation: c,
			OtherUser:    profile.Summary{ID: other, FullName: f.s.names[other]},
			UnreadCount:  unread,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type fakeMessages struct {
	s         *chatStore
	createErr error
}

func (f *fakeMessages) Create(_ context.Context, m message.Message) (message.Message, error) {
	if f.createErr != nil {
		return message.Message{}, f.createErr
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = f.s.clock.next()
	m.Sender = profile.Summary{ID: m.SenderID, FullName: f.s.names[m.SenderID]}
	f.s.messages = append(f.s.messages, m)
	c := f.s.conversations[m.ConversationID]
	c.UpdatedAt = m.CreatedAt
	f.s.conversations[m.ConversationID] = c
	return m, nil
}

func (f *fakeMessages) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, m := range f.s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return message.Message{}, message.ErrNotFound
}

func (f *fakeMessages) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]message.Message, 0)
	for i := len(f.s.messages) - 1; i >= 0; i-- {
		if f.s.messages[i].ConversationID == conversationID {
			out = append(out, f.s.messages[i])
		}
	}
	return out, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for i := range f.s.messages {
		m := &f.s.messages[i]
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

type publishedEvent struct {
	conversationID uuid.UUID
	messageID      uuid.UUID
}

type fakeRealtime struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeRealtime) PublishMessageInserted(_ context.Context, conversationID, messageID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{conversationID: conversationID, messageID: messageID})
	return nil
}

type pushed struct {
	userID uuid.UUID
	n      PushNotification
}

type fakePush struct {
	mu   sync.Mutex
	sent []pushed
}

func (f *fakePush) NotifyUser(_ context.Context, userID uuid.UUID, n PushNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, pushed{userID: userID, n: n})
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeStorage struct {
	objects map[string]int64
}

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, size int64, _ string) error {
	if f.objects == nil {
		f.objects = map[string]int64{}
	}
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return err
	}
	if n != size {
		return io.ErrUnexpectedEOF
	}
	f.objects[key] = n
	return nil
}

func (f *fakeStorage) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://storage.test/" + key + "?ttl=" + ttl.String(), nil
}

type fakeCache struct {
	values map[string]any
	gets   int
	hits   int
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.gets++
	v, ok := f.values[key]
	if !ok {
		return false, nil
	}
	f.hits++
	if st, ok := out.(*profile.Stats); ok {
		*st = v.(profile.Stats)
	}
	return true, nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if f.values == nil {
		f.values = map[string]any{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type fakeProfiles struct {
	rows    map[uuid.UUID]profile.Profile
	views   []uuid.UUID
	stats   profile.Stats
	statsN  int
	photos  map[profile.PhotoKind]string
	created int
}

func newFakeProfiles(ps ...profile.Profile) *fakeProfiles {
	f := &fakeProfiles{rows: map[uuid.UUID]profile.Profile{}, photos: map[profile.PhotoKind]string{}}
	for _, p := range ps {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := f.rows[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Create(_ context.Context, p profile.Profile) error {
	f.created++
	f.rows[p.ID] = p
	return nil
}

func (f *fakeProfiles) Update(_ context.Context, p profile.Profile) error {
	if _, ok := f.rows[p.ID]; !ok {
		return profile.ErrNotFound
	}
	f.rows[p.ID] = p
	return nil
}

func (f *fakeProfiles) SetPhoto(_ context.Context, id uuid.UUID, kind profile.PhotoKind, url string) error {
	p, ok := f.rows[id]
	if !ok {
		return profile.ErrNotFound
	}
	if kind == profile.PhotoCover {
		p.CoverPhoto = url
	} else {
		p.ProfilePhoto = url
	}
	f.rows[id] = p
	f.photos[kind] = url
	return nil
}

func (f *fakeProfiles) SetAccountStatus(_ context.Context, id uuid.UUID, status profile.AccountStatus) error {
	p, ok := f.rows[id]
	if !ok {
		return profile.ErrNotFound
	}
	p.AccountStatus = status
	f.rows[id] = p
	return nil
}

func (f *fakeProfiles) RecordView(_ context.Context, profileID, _ uuid.UUID) error {
	f.views = append(f.views, profileID)
	return nil
}

func (f *fakeProfiles) Stats(_ context.Context, _ uuid.UUID) (profile.Stats, error) {
	f.statsN++
	return f.stats, nil
}

type fakeCareTeam struct {
	rows map[uuid.UUID]careteam.Request
}

func newFakeCareTeam() *fakeCareTeam {
	return &fakeCareTeam{rows: map[uuid.UUID]careteam.Request{}}
}

func (f *fakeCareTeam) FindBetween(_ context.Context, a, b uuid.UUID) (careteam.Request, error) {
	for _, r := range f.rows {
		if (r.RequesterID == a && r.ReceiverID == b) || (r.RequesterID == b && r.ReceiverID == a) {
			return r, nil
		}
	}
	return careteam.Request{}, careteam.ErrNotFound
}

func (f *fakeCareTeam) GetByID(_ context.Context, id uuid.UUID) (careteam.Request, error) {
	r, ok := f.rows[id]
	if !ok {
		return careteam.Request{}, careteam.ErrNotFound
	}
	return r, nil
}

func (f *fakeCareTeam) Create(_ context.Context, requesterID, receiverID uuid.UUID) (careteam.Request, error) {
	r := careteam.Request{
		ID:          uuid.New(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      careteam.StatusPending,
		Requester:   profile.Summary{ID: requesterID, FullName: "Requester"},
		Receiver:    profile.Summary{ID: receiverID, FullName: "Receiver"},
	}
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeCareTeam) Accept(_ context.Context, id uuid.UUID) error {
	r, ok := f.rows[id]
	if !ok || r.Status != careteam.StatusPending {
		return careteam.ErrNotFound
	}
	r.Status = careteam.StatusAccepted
	f.rows[id] = r
	return nil
}

func (f *fakeCareTeam) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return careteam.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCareTeam) DeleteBetween(ctx context.Context, a, b uuid.UUID) (int64, error) {
	r, err := f.FindBetween(ctx, a, b)
	if err != nil {
		return 0, nil
	}
	delete(f.rows, r.ID)
	return 1, nil
}

func (f *fakeCareTeam) ListForUser(_ context.Context, userID uuid.UUID) ([]careteam.Request, error) {
	out := make([]careteam.Request, 0)
	for _, r := range f.rows {
		if r.RequesterID == userID || r.ReceiverID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCareTeam) Suggestions(context.Context, uuid.UUID, int) ([]profile.Summary, error) {
	return nil, nil
}

type fakeJobs struct {
	rows map[uuid.UUID]job.Job
}

func (f *fakeJobs) Create(_ context.Context, j job.Job) (job.Job, error) {
	if f.rows == nil {
		f.rows = map[uuid.UUID]job.Job{}
	}
	j.ID = uuid.New()
	j.IsActive = true
	f.rows[j.ID] = j
	return j, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := f.rows[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobs) ListActive(_ context.Context, filter job.ListFilter) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for _, j := range f.rows {
		if j.IsActive && (filter.JobType == "" || j.JobType == filter.JobType) {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeApplications struct {
	jobs    *fakeJobs
	rows    map[uuid.UUID]job.Application
	inserts int
}

func newFakeApplications(jobs *fakeJobs) *fakeApplications {
	return &fakeApplications{jobs: jobs, rows: map[uuid.UUID]job.Application{}}
}

func (f *fakeApplications) Create(_ context.Context, a job.Application) (job.Application, error) {
	for _, r := range f.rows {
		if r.JobID == a.JobID && r.ApplicantID == a.ApplicantID {
			return job.Application{}, job.ErrAlreadyApplied
		}
	}
	f.inserts++
	a.ID = uuid.New()
	a.Job = f.jobs.rows[a.JobID]
	a.Applicant = profile.Summary{ID: a.ApplicantID, FullName: "Applicant"}
	a.ApplicantEmail = "applicant@example.com"
	f.rows[a.ID] = a
	return a, nil
}

func (f *fakeApplications) HasApplied(_ context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	for _, r := range f.rows {
		if r.JobID == jobID && r.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplications) GetByID(_ context.Context, id uuid.UUID) (job.Application, error) {
	a, ok := f.rows[id]
	if !ok {
		return job.Application{}, job.ErrApplicationNotFound
	}
	return a, nil
}

func (f *fakeApplications) ListByApplicant(_ context.Context, applicantID uuid.UUID) ([]job.Application, error) {
	out := make([]job.Application, 0)
	for _, r := range f.rows {
		if r.ApplicantID == applicantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeApplications) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]job.Application, error) {
	out := make([]job.Application, 0)
	for _, r := range f.rows {
		if r.Job.EmployerID == employerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id uuid.UUID, status job.ApplicationStatus) error {
	a, ok := f.rows[id]
	if !ok {
		return job.ErrApplicationNotFound
	}
	a.Status = status
	f.rows[id] = a
	return nil
}
