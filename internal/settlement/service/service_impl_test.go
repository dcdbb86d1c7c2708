package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	centerrepo "github.com/drivio/drivio/internal/center/repository"
	"github.com/drivio/drivio/internal/clock"
	"github.com/drivio/drivio/internal/settlement/domain"
	settlementrepo "github.com/drivio/drivio/internal/settlement/repository"
	visitdomain "github.com/drivio/drivio/internal/visit/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   *clock.FakeClock
	service domain.SettlementService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&centerdomain.ServiceCenter{},
		&visitdomain.Visit{},
		&domain.Settlement{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))

	f := &fixture{db: db, node: node, clock: fake}
	f.service = New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Repo:       settlementrepo.Provide(),
		CenterRepo: centerrepo.Provide(),
	})
	return f
}

func (f *fixture) createCenter(t *testing.T, name string, active bool, managerID *snowflake.ID) centerdomain.ServiceCenter {
	t.Helper()
	center := centerdomain.ServiceCenter{
		ID:        f.node.Generate(),
		Name:      name,
		Type:      centerdomain.CenterTypeServiceCenter,
		City:      "Springfield",
		IsActive:  active,
		ManagerID: managerID,
	}
	require.NoError(t, f.db.Create(&center).Error)
	return center
}

func (f *fixture) createVisit(t *testing.T, centerID snowflake.ID, fee, used int64, at time.Time) {
	t.Helper()
	visit := visitdomain.Visit{
		ID:              f.node.Generate(),
		VehicleID:       f.node.Generate(),
		ServiceCenterID: centerID,
		Description:     "Service",
		Cost:            fee * 5,
		ServiceFee:      fee,
		CashbackUsed:    used,
		Status:          visitdomain.VisitStatusCompleted,
		CreatedAt:       at,
	}
	require.NoError(t, f.db.Create(&visit).Error)
}

func (f *fixture) reload(t *testing.T, id snowflake.ID) domain.Settlement {
	t.Helper()
	var settlement domain.Settlement
	require.NoError(t, f.db.First(&settlement, "id = ?", id).Error)
	return settlement
}

func window(f *fixture) (time.Time, time.Time) {
	end := f.clock.Now()
	return end.AddDate(0, -1, 0), end
}

func TestAggregateRollsUpPerCenter(t *testing.T) {
	f := setup(t)
	start, end := window(f)
	alpha := f.createCenter(t, "Alpha", true, nil)
	beta := f.createCenter(t, "Beta", true, nil)

	f.createVisit(t, alpha.ID, 2000, 300, start.AddDate(0, 0, 3))
	f.createVisit(t, alpha.ID, 1500, 0, start.AddDate(0, 0, 10))
	f.createVisit(t, beta.ID, 900, 100, start.AddDate(0, 0, 5))

	resp, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)
	require.Len(t, resp.Settlements, 2)

	byCenter := map[snowflake.ID]domain.Settlement{}
	for _, s := range resp.Settlements {
		byCenter[s.ServiceCenterID] = s
	}

	a := byCenter[alpha.ID]
	require.Equal(t, int64(3500), a.TotalCommission)
	require.Equal(t, int64(300), a.TotalCashbackUsed)
	// Net is the commission; redeemed cashback is not deducted.
	require.Equal(t, int64(3500), a.NetAmount)
	require.Equal(t, 2, a.VisitCount)
	require.False(t, a.IsPaid)
	require.Equal(t, domain.ReceiptStatusNone, a.ReceiptStatus)

	b := byCenter[beta.ID]
	require.Equal(t, int64(900), b.TotalCommission)
	require.Equal(t, 1, b.VisitCount)
}

func TestAggregateSkipsQuietAndInactiveCenters(t *testing.T) {
	f := setup(t)
	start, end := window(f)
	f.createCenter(t, "Quiet", true, nil)
	inactive := f.createCenter(t, "Closed", false, nil)
	f.createVisit(t, inactive.ID, 1000, 0, start.AddDate(0, 0, 1))

	resp, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Settlements)
}

func TestAggregateWindowIsInclusive(t *testing.T) {
	f := setup(t)
	start, end := window(f)
	center := f.createCenter(t, "Edge", true, nil)

	f.createVisit(t, center.ID, 100, 0, start)
	f.createVisit(t, center.ID, 200, 0, end)
	f.createVisit(t, center.ID, 400, 0, end.Add(time.Second))

	resp, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)
	require.Len(t, resp.Settlements, 1)
	require.Equal(t, int64(300), resp.Settlements[0].TotalCommission)
}

func TestAggregateRejectsInvertedPeriod(t *testing.T) {
	f := setup(t)
	start, end := window(f)

	_, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: end,
		PeriodEnd:   start,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestAttachReceiptCoversUnsubmittedSettlements(t *testing.T) {
	f := setup(t)
	start, end := window(f)
	manager := f.node.Generate()
	center := f.createCenter(t, "Managed", true, &manager)
	f.createVisit(t, center.ID, 2000, 300, start.AddDate(0, 0, 2))

	agg, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)
	require.Len(t, agg.Settlements, 1)

	resp, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: manager.String(),
		FileName:  "receipt.pdf",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ReceiptRef)
	require.Len(t, resp.Settlements, 1)

	stored := f.reload(t, agg.Settlements[0].ID)
	require.Equal(t, domain.ReceiptStatusPending, stored.ReceiptStatus)
	require.NotNil(t, stored.ReceiptRef)
	require.Equal(t, resp.ReceiptRef, *stored.ReceiptRef)
	require.False(t, stored.IsPaid)
}

func TestAttachReceiptSynthesizesCurrentMonth(t *testing.T) {
	f := setup(t)
	manager := f.node.Generate()
	center := f.createCenter(t, "Fresh", true, &manager)

	now := f.clock.Now()
	f.createVisit(t, center.ID, 2000, 300, now.AddDate(0, 0, -5))

	resp, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: manager.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Settlements, 1)

	settlement := resp.Settlements[0]
	require.Equal(t, int64(2000), settlement.TotalCommission)
	require.Equal(t, int64(300), settlement.TotalCashbackUsed)
	require.Equal(t, int64(2000), settlement.NetAmount)
	require.Equal(t, domain.ReceiptStatusPending, settlement.ReceiptStatus)
	require.False(t, settlement.IsPaid)
	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), settlement.PeriodStart)
}

func TestAttachReceiptNoVisitsThisMonth(t *testing.T) {
	f := setup(t)
	manager := f.node.Generate()
	center := f.createCenter(t, "Idle", true, &manager)

	// Activity exists, but not in the running month.
	f.createVisit(t, center.ID, 500, 0, f.clock.Now().AddDate(0, -2, 0))

	_, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: manager.String(),
	})
	require.ErrorIs(t, err, domain.ErrNoVisits)
}

func TestAttachReceiptRequiresManagedCenter(t *testing.T) {
	f := setup(t)
	_, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: f.node.Generate().String(),
	})
	require.ErrorIs(t, err, domain.ErrNoManagedCenter)
}

func TestAttachReceiptForeignSettlement(t *testing.T) {
	f := setup(t)
	start, end := window(f)
	manager := f.node.Generate()
	f.createCenter(t, "Mine", true, &manager)
	other := f.createCenter(t, "Other", true, nil)
	f.createVisit(t, other.ID, 1000, 0, start.AddDate(0, 0, 1))

	agg, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)

	_, err = f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID:    manager.String(),
		SettlementID: agg.Settlements[0].ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewApproveMarksPaid(t *testing.T) {
	f := setup(t)
	manager := f.node.Generate()
	center := f.createCenter(t, "Managed", true, &manager)
	f.createVisit(t, center.ID, 2000, 0, f.clock.Now().AddDate(0, 0, -1))

	attached, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: manager.String(),
	})
	require.NoError(t, err)
	id := attached.Settlements[0].ID

	reviewed, err := f.service.Review(context.Background(), domain.ReviewRequest{
		ID:      id.String(),
		Approve: true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ReceiptStatusApproved, reviewed.ReceiptStatus)
	require.True(t, reviewed.IsPaid)

	stored := f.reload(t, id)
	require.True(t, stored.IsPaid)
	require.Equal(t, domain.ReceiptStatusApproved, stored.ReceiptStatus)

	// A settled receipt cannot be reviewed twice.
	_, err = f.service.Review(context.Background(), domain.ReviewRequest{ID: id.String(), Approve: false})
	require.ErrorIs(t, err, domain.ErrNotPending)
}

func TestReviewRejectAllowsResubmission(t *testing.T) {
	f := setup(t)
	manager := f.node.Generate()
	center := f.createCenter(t, "Managed", true, &manager)
	f.createVisit(t, center.ID, 2000, 0, f.clock.Now().AddDate(0, 0, -1))

	attached, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: manager.String(),
	})
	require.NoError(t, err)
	id := attached.Settlements[0].ID

	rejected, err := f.service.Review(context.Background(), domain.ReviewRequest{
		ID:      id.String(),
		Approve: false,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ReceiptStatusRejected, rejected.ReceiptStatus)
	require.False(t, rejected.IsPaid)

	// Resubmitting targets the rejected settlement explicitly.
	resub, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID:    manager.String(),
		SettlementID: id.String(),
		ReceiptRef:   "manual-ref-2",
	})
	require.NoError(t, err)
	require.Equal(t, "manual-ref-2", resub.ReceiptRef)
	require.Equal(t, domain.ReceiptStatusPending, f.reload(t, id).ReceiptStatus)
}

func TestListFiltersUnpaidByCenter(t *testing.T) {
	f := setup(t)
	start, end := window(f)
	manager := f.node.Generate()
	center := f.createCenter(t, "Managed", true, &manager)
	f.createVisit(t, center.ID, 1000, 0, start.AddDate(0, 0, 1))

	agg, err := f.service.Aggregate(context.Background(), domain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	require.NoError(t, err)

	attached, err := f.service.AttachReceipt(context.Background(), domain.AttachReceiptRequest{
		ManagerID: manager.String(),
	})
	require.NoError(t, err)
	_, err = f.service.Review(context.Background(), domain.ReviewRequest{
		ID:      attached.Settlements[0].ID.String(),
		Approve: true,
	})
	require.NoError(t, err)

	all, err := f.service.List(context.Background(), domain.ListRequest{CenterID: center.ID.String()})
	require.NoError(t, err)
	require.Equal(t, int64(1), all.Total)

	unpaid, err := f.service.List(context.Background(), domain.ListRequest{
		CenterID:   center.ID.String(),
		UnpaidOnly: true,
	})
	require.NoError(t, err)
	require.Zero(t, unpaid.Total)

	got, err := f.service.GetByID(context.Background(), domain.GetRequest{ID: agg.Settlements[0].ID.String()})
	require.NoError(t, err)
	require.True(t, got.IsPaid)
}
