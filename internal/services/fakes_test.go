package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"hvac-service/internal/entities"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/eventbus"
	"hvac-service/pkg/line"
	"hvac-service/pkg/types"
	"hvac-service/pkg/utils"

	"github.com/jackc/pgx/v5"
)

func actorCtx(userID string, role constants.Role, siteID string) context.Context {
	return utils.WithActor(context.Background(), utils.Actor{UserID: userID, Role: role, SiteID: siteID})
}

func adminCtx() context.Context {
	return actorCtx("admin-1", constants.RoleAdmin, "")
}

func containsStatus[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ---------------- transactions ----------------

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

// ---------------- events ----------------

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, ev eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Name())
	}
	return out
}

// ---------------- work orders ----------------

type fakeWorkOrderRepo struct {
	orders     map[string]*entities.WorkOrder
	items      *fakeJobItemRepo
	counters   map[string]int
	createErrs []error
	created    []entities.WorkOrder
	nextCalls  int
	writes     int
	lastScope  entities.WorkOrderScope
}

func newFakeWorkOrderRepo(items *fakeJobItemRepo) *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		orders:   map[string]*entities.WorkOrder{},
		items:    items,
		counters: map[string]int{},
	}
}

func (r *fakeWorkOrderRepo) put(wo entities.WorkOrder) *entities.WorkOrder {
	cp := wo
	r.orders[wo.ID] = &cp
	return &cp
}

func (r *fakeWorkOrderRepo) NextNumber(ctx context.Context, tx pgx.Tx, prefix string) (int, error) {
	r.nextCalls++
	r.counters[prefix]++
	return r.counters[prefix], nil
}

func (r *fakeWorkOrderRepo) CreateInTx(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		return err
	}
	wo.CreatedAt = time.Now()
	r.put(*wo)
	r.created = append(r.created, *wo)
	return nil
}

func (r *fakeWorkOrderRepo) FindByID(ctx context.Context, id string) (*entities.WorkOrder, error) {
	wo, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *wo
	return &cp, nil
}

func (r *fakeWorkOrderRepo) FindByApprovalToken(ctx context.Context, token string) (*entities.WorkOrder, error) {
	for _, wo := range r.orders {
		if wo.ApprovalToken != nil && *wo.ApprovalToken == token {
			cp := *wo
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeWorkOrderRepo) List(ctx context.Context, filter types.Filter, scope entities.WorkOrderScope) ([]entities.WorkOrder, uint64, error) {
	r.lastScope = scope
	out := make([]entities.WorkOrder, 0, len(r.orders))
	for _, wo := range r.orders {
		if scope.SiteID != "" && wo.SiteID != scope.SiteID {
			continue
		}
		out = append(out, *wo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *fakeWorkOrderRepo) TransitionStatus(ctx context.Context, id string, to constants.WorkOrderStatus, from []constants.WorkOrderStatus) (*entities.WorkOrder, error) {
	r.writes++
	wo, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !containsStatus(from, wo.Status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}
	wo.Status = to
	if to == constants.WorkOrderCancelled {
		now := time.Now()
		wo.CancelledAt = &now
	}
	cp := *wo
	return &cp, nil
}

func (r *fakeWorkOrderRepo) Complete(ctx context.Context, id string, from []constants.WorkOrderStatus) (*entities.WorkOrder, error) {
	r.writes++
	wo, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !containsStatus(from, wo.Status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}
	for _, it := range r.items.byWorkOrder(id) {
		if !constants.IsJobItemFinished(it.Status) {
			return nil, apperrors.ErrJobItemsIncomplete
		}
	}
	now := time.Now()
	wo.Status = constants.WorkOrderCompleted
	wo.CompletedAt = &now
	cp := *wo
	return &cp, nil
}

func (r *fakeWorkOrderRepo) IssueApprovalToken(ctx context.Context, id, token string, from []constants.WorkOrderStatus) (*entities.WorkOrder, error) {
	wo, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !containsStatus(from, wo.Status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}
	wo.Status = constants.WorkOrderWaitingApproval
	wo.ApprovalToken = &token
	wo.ApprovedAt, wo.RejectedAt, wo.RejectionReason = nil, nil, nil
	cp := *wo
	return &cp, nil
}

func (r *fakeWorkOrderRepo) DecideApproval(ctx context.Context, token string, to constants.WorkOrderStatus, reason *string) (*entities.WorkOrder, error) {
	for _, wo := range r.orders {
		if wo.ApprovalToken == nil || *wo.ApprovalToken != token {
			continue
		}
		if wo.Status != constants.WorkOrderWaitingApproval {
			return nil, apperrors.ErrApprovalAlreadyProcessed
		}
		now := time.Now()
		wo.Status = to
		wo.RejectionReason = reason
		if to == constants.WorkOrderApproved {
			wo.ApprovedAt = &now
		} else {
			wo.RejectedAt = &now
		}
		cp := *wo
		return &cp, nil
	}
	return nil, apperrors.ErrApprovalNotFound
}

func (r *fakeWorkOrderRepo) StartIfOpen(ctx context.Context, tx pgx.Tx, id string) (bool, error) {
	wo, ok := r.orders[id]
	if !ok || wo.Status != constants.WorkOrderOpen {
		return false, nil
	}
	wo.Status = constants.WorkOrderInProgress
	return true, nil
}

// ---------------- job items ----------------

type fakeJobItemRepo struct {
	items  map[string]*entities.JobItem
	order  []string
	writes int
}

func newFakeJobItemRepo() *fakeJobItemRepo {
	return &fakeJobItemRepo{items: map[string]*entities.JobItem{}}
}

func (r *fakeJobItemRepo) put(item entities.JobItem) {
	cp := item
	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = &cp
}

func (r *fakeJobItemRepo) byWorkOrder(woID string) []entities.JobItem {
	out := make([]entities.JobItem, 0)
	for _, id := range r.order {
		if it := r.items[id]; it.WorkOrderID == woID {
			out = append(out, *it)
		}
	}
	return out
}

func (r *fakeJobItemRepo) CreateInTx(ctx context.Context, tx pgx.Tx, item *entities.JobItem) error {
	r.put(*item)
	return nil
}

func (r *fakeJobItemRepo) FindByID(ctx context.Context, id string) (*entities.JobItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeJobItemRepo) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.JobItem, error) {
	return r.byWorkOrder(workOrderID), nil
}

func (r *fakeJobItemRepo) TransitionInTx(ctx context.Context, tx pgx.Tx, id string, to constants.JobItemStatus, from []constants.JobItemStatus, note *string) error {
	r.writes++
	it, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !containsStatus(from, it.Status) {
		return apperrors.ErrInvalidStatusTransition
	}
	now := time.Now()
	it.Status = to
	if to == constants.JobItemInProgress {
		it.StartedAt = &now
	} else {
		it.FinishedAt = &now
	}
	if note != nil {
		it.TechNote = note
	}
	return nil
}

func (r *fakeJobItemRepo) UpdateNote(ctx context.Context, id string, note, checklist *string) error {
	it, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if note != nil {
		it.TechNote = note
	}
	if checklist != nil {
		it.Checklist = checklist
	}
	return nil
}

func (r *fakeJobItemRepo) Assign(ctx context.Context, id, technicianID string) error {
	it, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	it.TechnicianID = &technicianID
	return nil
}

func (r *fakeJobItemRepo) TechnicianIDs(ctx context.Context, workOrderID string) ([]string, error) {
	return technicianIDs(r.byWorkOrder(workOrderID)), nil
}

// ---------------- photos ----------------

type fakeJobPhotoRepo struct {
	photos []entities.JobPhoto
}

func (r *fakeJobPhotoRepo) Create(ctx context.Context, photo *entities.JobPhoto) error {
	photo.CreatedAt = time.Now()
	r.photos = append(r.photos, *photo)
	return nil
}

func (r *fakeJobPhotoRepo) ListByJobItem(ctx context.Context, jobItemID string) ([]entities.JobPhoto, error) {
	out := make([]entities.JobPhoto, 0)
	for _, p := range r.photos {
		if p.JobItemID == jobItemID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeJobPhotoRepo) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.JobPhoto, error) {
	return r.photos, nil
}

// ---------------- assets ----------------

type fakeAssetRepo struct {
	assets    map[string]*entities.Asset
	siteOf    map[string]string
	qrLookups int
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: map[string]*entities.Asset{}, siteOf: map[string]string{}}
}

func (r *fakeAssetRepo) add(a entities.Asset, siteID string) {
	cp := a
	r.assets[a.ID] = &cp
	r.siteOf[a.ID] = siteID
}

func (r *fakeAssetRepo) Create(ctx context.Context, asset *entities.Asset) error {
	r.add(*asset, "")
	return nil
}

func (r *fakeAssetRepo) Update(ctx context.Context, asset *entities.Asset) error {
	if _, ok := r.assets[asset.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *asset
	r.assets[asset.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) FindByID(ctx context.Context, id string) (*entities.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) FindByQRCode(ctx context.Context, qrCode string) (*entities.Asset, error) {
	r.qrLookups++
	for _, a := range r.assets {
		if a.QRCode != nil && *a.QRCode == qrCode {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeAssetRepo) List(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	out := make([]entities.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, *a)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeAssetRepo) SetStatus(ctx context.Context, id string, status constants.AssetStatus) error {
	a, ok := r.assets[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAssetRepo) CountAtSite(ctx context.Context, siteID string, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if r.siteOf[id] == siteID {
			n++
		}
	}
	return n, nil
}

// ---------------- users ----------------

type fakeUserRepo struct {
	users map[string]*entities.User
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entities.User{}}
	for _, u := range users {
		cp := u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperrors.ErrConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) ListActiveByRole(ctx context.Context, role constants.Role) ([]entities.User, error) {
	out := make([]entities.User, 0)
	for _, u := range r.sorted() {
		if u.IsActive && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListClientsBySite(ctx context.Context, siteID string) ([]entities.User, error) {
	out := make([]entities.User, 0)
	for _, u := range r.sorted() {
		if u.IsActive && u.Role == constants.RoleClient && u.SiteID != nil && *u.SiteID == siteID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]entities.User, error) {
	out := make([]entities.User, 0)
	for _, id := range ids {
		if u, ok := r.users[id]; ok && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) LinkLineUser(ctx context.Context, tx pgx.Tx, username, lineUserID string) (*entities.User, error) {
	var target *entities.User
	for _, u := range r.users {
		if u.Username == username && u.IsActive {
			target = u
		}
	}
	if target == nil {
		return nil, apperrors.ErrNotFound
	}
	for _, u := range r.users {
		if u.LineUserID != nil && *u.LineUserID == lineUserID {
			u.LineUserID = nil
		}
	}
	target.LineUserID = &lineUserID
	cp := *target
	return &cp, nil
}

func (r *fakeUserRepo) sorted() []entities.User {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------------- feedback ----------------

type fakeFeedbackRepo struct {
	list []entities.Feedback
}

func (r *fakeFeedbackRepo) Exists(ctx context.Context, workOrderID, userID string) (bool, error) {
	for _, f := range r.list {
		if f.WorkOrderID == workOrderID && f.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, f *entities.Feedback) error {
	f.CreatedAt = time.Now()
	r.list = append(r.list, *f)
	return nil
}

func (r *fakeFeedbackRepo) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Feedback, error) {
	out := make([]entities.Feedback, 0)
	for _, f := range r.list {
		if f.WorkOrderID == workOrderID {
			out = append(out, f)
		}
	}
	return out, nil
}

// ---------------- notifications ----------------

type fakeNotificationRepo struct {
	rows      []entities.Notification
	failUsers map[string]bool
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entities.Notification) error {
	if r.failUsers[n.UserID] {
		return apperrors.ErrNotFound
	}
	n.CreatedAt = time.Now()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]entities.Notification, uint64, error) {
	out := make([]entities.Notification, 0)
	for _, n := range r.rows {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var n int64
	for i := range r.rows {
		if r.rows[i].UserID == userID && !r.rows[i].IsRead {
			r.rows[i].IsRead = true
			n++
		}
	}
	return n, nil
}

type wsPush struct {
	UserID  string
	Payload interface{}
	Type    string
}

type fakeWebSocket struct {
	pushes []wsPush
}

func (f *fakeWebSocket) SendNotification(userID string, payload interface{}, messageType string) error {
	f.pushes = append(f.pushes, wsPush{UserID: userID, Payload: payload, Type: messageType})
	return nil
}

// ---------------- locations ----------------

type fakeLocationRepo struct {
	sites map[string]entities.Site
	paths map[string]entities.LocationPath
}

func (r *fakeLocationRepo) CreateClient(ctx context.Context, c *entities.Client) error { return nil }
func (r *fakeLocationRepo) ListClients(ctx context.Context) ([]entities.Client, error) {
	return []entities.Client{}, nil
}
func (r *fakeLocationRepo) FindClient(ctx context.Context, id string) (*entities.Client, error) {
	return nil, apperrors.ErrNotFound
}
func (r *fakeLocationRepo) CreateSite(ctx context.Context, s *entities.Site) error { return nil }
func (r *fakeLocationRepo) ListSites(ctx context.Context, clientID string) ([]entities.Site, error) {
	return []entities.Site{}, nil
}
func (r *fakeLocationRepo) FindSite(ctx context.Context, id string) (*entities.Site, error) {
	s, ok := r.sites[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}
func (r *fakeLocationRepo) CreateBuilding(ctx context.Context, b *entities.Building) error {
	return nil
}
func (r *fakeLocationRepo) ListBuildings(ctx context.Context, siteID string) ([]entities.Building, error) {
	return []entities.Building{}, nil
}
func (r *fakeLocationRepo) CreateFloor(ctx context.Context, f *entities.Floor) error { return nil }
func (r *fakeLocationRepo) ListFloors(ctx context.Context, buildingID string) ([]entities.Floor, error) {
	return []entities.Floor{}, nil
}
func (r *fakeLocationRepo) CreateRoom(ctx context.Context, room *entities.Room) error { return nil }
func (r *fakeLocationRepo) ListRooms(ctx context.Context, floorID string) ([]entities.Room, error) {
	return []entities.Room{}, nil
}
func (r *fakeLocationRepo) PathForRoom(ctx context.Context, roomID string) (*entities.LocationPath, error) {
	p, ok := r.paths[roomID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

// ---------------- LINE ----------------

type linePush struct {
	To       string
	Messages []line.Message
}

type fakeLineClient struct {
	mu      sync.Mutex
	enabled bool
	pushes  []linePush
	replies []linePush
	pushErr error
}

func (c *fakeLineClient) PushMessage(ctx context.Context, to string, messages ...line.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushes = append(c.pushes, linePush{To: to, Messages: messages})
	return c.pushErr
}

func (c *fakeLineClient) ReplyMessage(ctx context.Context, replyToken string, messages ...line.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, linePush{To: replyToken, Messages: messages})
	return nil
}

func (c *fakeLineClient) Enabled() bool { return c.enabled }
