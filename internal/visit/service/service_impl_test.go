package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	balancedomain "github.com/drivio/drivio/internal/balance/domain"
	balancerepo "github.com/drivio/drivio/internal/balance/repository"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	catalogrepo "github.com/drivio/drivio/internal/catalog/repository"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	centerrepo "github.com/drivio/drivio/internal/center/repository"
	"github.com/drivio/drivio/internal/clock"
	"github.com/drivio/drivio/internal/config"
	customerdomain "github.com/drivio/drivio/internal/customer/domain"
	customerrepo "github.com/drivio/drivio/internal/customer/repository"
	"github.com/drivio/drivio/internal/events"
	vehicledomain "github.com/drivio/drivio/internal/vehicle/domain"
	vehiclerepo "github.com/drivio/drivio/internal/vehicle/repository"
	"github.com/drivio/drivio/internal/visit/domain"
	visitrepo "github.com/drivio/drivio/internal/visit/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   *clock.FakeClock
	engine  domain.VisitEngine
	owner   customerdomain.Customer
	vehicle vehicledomain.Vehicle
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Service{},
		&centerdomain.ServiceCenter{},
		&centerdomain.ServiceCenterService{},
		&customerdomain.Customer{},
		&vehicledomain.Vehicle{},
		&balancedomain.Entry{},
		&domain.Visit{},
		&domain.VisitService{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	f := &fixture{db: db, node: node, clock: fake}
	f.engine = New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        fake,
		Repo:         visitrepo.Provide(),
		CatalogRepo:  catalogrepo.Provide(),
		CenterRepo:   centerrepo.Provide(),
		VehicleRepo:  vehiclerepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		BalanceRepo:  balancerepo.Provide(),
	})

	f.owner = customerdomain.Customer{
		ID:    node.Generate(),
		Phone: "+15550001111",
		Role:  customerdomain.RoleUser,
	}
	require.NoError(t, db.Create(&f.owner).Error)

	mileage := 42000
	f.vehicle = vehicledomain.Vehicle{
		ID:          node.Generate(),
		OwnerID:     f.owner.ID,
		Brand:       "Toyota",
		Model:       "Camry",
		Year:        2021,
		PlateNumber: "AB123CD",
		Mileage:     &mileage,
	}
	require.NoError(t, db.Create(&f.vehicle).Error)

	return f
}

func (f *fixture) createCenter(t *testing.T, ctype centerdomain.CenterType, commission, discount float64) centerdomain.ServiceCenter {
	t.Helper()
	center := centerdomain.ServiceCenter{
		ID:                f.node.Generate(),
		Name:              "Downtown " + string(ctype),
		Type:              ctype,
		City:              "Springfield",
		IsActive:          true,
		CommissionPercent: commission,
		DiscountPercent:   discount,
	}
	require.NoError(t, f.db.Create(&center).Error)
	return center
}

func (f *fixture) createService(t *testing.T, name string, commType catalogdomain.RuleType, commValue float64, cbType catalogdomain.RuleType, cbValue float64) catalogdomain.Service {
	t.Helper()
	svc := catalogdomain.Service{
		ID:              f.node.Generate(),
		Name:            name,
		Category:        "general",
		CommissionType:  commType,
		CommissionValue: commValue,
		CashbackType:    cbType,
		CashbackValue:   cbValue,
	}
	require.NoError(t, f.db.Create(&svc).Error)
	return svc
}

func (f *fixture) setBalance(t *testing.T, amount int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&customerdomain.Customer{}).
		Where("id = ?", f.owner.ID).
		Update("balance", amount).Error)
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	var c customerdomain.Customer
	require.NoError(t, f.db.First(&c, "id = ?", f.owner.ID).Error)
	return c.Balance
}

func (f *fixture) entries(t *testing.T) []balancedomain.Entry {
	t.Helper()
	var out []balancedomain.Entry
	require.NoError(t, f.db.Where("customer_id = ?", f.owner.ID).Order("amount DESC").Find(&out).Error)
	return out
}

func TestCreateItemizedVisit(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	diagnostics := f.createService(t, "Diagnostics", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)
	alignment := f.createService(t, "Wheel alignment", catalogdomain.RuleTypePercent, 10, catalogdomain.RuleTypePercent, 50)

	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services: []domain.VisitLineInput{
			{ServiceID: diagnostics.ID.String(), Price: 10000},
			{ServiceID: alignment.ID.String(), Price: 6000},
		},
	})
	require.NoError(t, err)

	// 20% of 10000 and 10% of 6000.
	require.Equal(t, int64(16000), resp.Visit.Cost)
	require.Equal(t, int64(2600), resp.Visit.ServiceFee)
	// Cashback comes off the commission: 25% of 2000 plus 50% of 600.
	require.Equal(t, int64(800), resp.Visit.Cashback)
	require.Equal(t, "Diagnostics, Wheel alignment", resp.Visit.Description)
	require.Len(t, resp.Services, 2)
	require.Empty(t, resp.SkippedServiceIDs)

	var sumPrice, sumComm, sumCB int64
	for _, line := range resp.Services {
		sumPrice += line.Price
		sumComm += line.Commission
		sumCB += line.Cashback
	}
	require.Equal(t, resp.Visit.Cost, sumPrice)
	require.Equal(t, resp.Visit.ServiceFee, sumComm)
	require.Equal(t, resp.Visit.Cashback, sumCB)

	require.Equal(t, int64(800), f.balance(t))
	entries := f.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, balancedomain.EntryTypeCashbackEarn, entries[0].Type)
	require.Equal(t, int64(800), entries[0].Amount)
	require.Equal(t, resp.Visit.ID, *entries[0].VisitID)
}

func TestCreateVisitOverrideWins(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Brake pads", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	fixed := catalogdomain.RuleTypeFixed
	value := 1500.0
	require.NoError(t, f.db.Create(&centerdomain.ServiceCenterService{
		ID:              f.node.Generate(),
		ServiceCenterID: center.ID,
		ServiceID:       svc.ID,
		CommissionType:  &fixed,
		CommissionValue: &value,
	}).Error)

	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services:  []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 9999}},
	})
	require.NoError(t, err)

	// Fixed commission ignores the line price; cashback keeps the
	// catalog percent rule and prices off the overridden commission.
	require.Equal(t, int64(1500), resp.Visit.ServiceFee)
	require.Equal(t, int64(375), resp.Visit.Cashback)
}

func TestCreateVisitSkipsUnknownServices(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Tire rotation", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	ghost := f.node.Generate().String()
	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services: []domain.VisitLineInput{
			{ServiceID: svc.ID.String(), Price: 4000},
			{ServiceID: ghost, Price: 1000},
			{ServiceID: "not-a-number", Price: 1000},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	require.ElementsMatch(t, []string{ghost, "not-a-number"}, resp.SkippedServiceIDs)
	require.Equal(t, int64(4000), resp.Visit.Cost)
}

func TestCreateVisitAllServicesUnknown(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)

	_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services:  []domain.VisitLineInput{{ServiceID: f.node.Generate().String(), Price: 1000}},
	})
	require.ErrorIs(t, err, domain.ErrServicesRequired)

	var count int64
	require.NoError(t, f.db.Model(&domain.Visit{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateFlatVisitAutoShop(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeAutoShop, 10, 5)

	total := int64(50000)
	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:   f.vehicle.ID.String(),
		CenterID:    center.ID.String(),
		TotalAmount: &total,
	})
	require.NoError(t, err)

	require.Equal(t, int64(50000), resp.Visit.Cost)
	require.Equal(t, int64(5000), resp.Visit.ServiceFee)
	require.Equal(t, int64(2500), resp.Visit.Cashback)
	require.Equal(t, "Purchase", resp.Visit.Description)
	require.Len(t, resp.Services, 1)
	require.Equal(t, resp.Visit.Cost, resp.Services[0].Price)
}

func TestCreateFlatVisitRequiresAmount(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeAutoShop, 10, 5)

	_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
	})
	require.ErrorIs(t, err, domain.ErrAmountRequired)
}

func TestCreateCarWashItemizedWhenLinesGiven(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeCarWash, 15, 10)
	svc := f.createService(t, "Full wash", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services:  []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 3000}},
	})
	require.NoError(t, err)

	// Catalog rules, not the center-wide percents.
	require.Equal(t, int64(600), resp.Visit.ServiceFee)
	require.Equal(t, int64(150), resp.Visit.Cashback)
	require.Equal(t, "Full wash", resp.Visit.Description)
}

func TestCreateVisitRedemption(t *testing.T) {
	f := setup(t)
	f.setBalance(t, 5000)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Diagnostics", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:    f.vehicle.ID.String(),
		CenterID:     center.ID.String(),
		Services:     []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 10000}},
		CashbackUsed: 3000,
	})
	require.NoError(t, err)

	require.Equal(t, int64(3000), resp.Visit.CashbackUsed)
	require.Equal(t, int64(500), resp.Visit.Cashback)
	// 5000 - 3000 spent + 500 earned.
	require.Equal(t, int64(2500), f.balance(t))

	entries := f.entries(t)
	require.Len(t, entries, 2)
	require.Equal(t, balancedomain.EntryTypeCashbackEarn, entries[0].Type)
	require.Equal(t, int64(500), entries[0].Amount)
	require.Equal(t, balancedomain.EntryTypeCashbackSpend, entries[1].Type)
	require.Equal(t, int64(-3000), entries[1].Amount)
}

func TestCreateVisitInsufficientBalance(t *testing.T) {
	f := setup(t)
	f.setBalance(t, 100)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Diagnostics", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:    f.vehicle.ID.String(),
		CenterID:     center.ID.String(),
		Services:     []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 10000}},
		CashbackUsed: 500,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Nothing committed.
	var count int64
	require.NoError(t, f.db.Model(&domain.Visit{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, int64(100), f.balance(t))
}

func TestCreateVisitRedemptionCap(t *testing.T) {
	f := setup(t)
	f.setBalance(t, 100000)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Diagnostics", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:    f.vehicle.ID.String(),
		CenterID:     center.ID.String(),
		Services:     []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 10001}},
		CashbackUsed: 5001,
	})

	var capErr *domain.RedemptionCapError
	require.ErrorAs(t, err, &capErr)
	// Integer floor of half the odd total.
	require.Equal(t, int64(5000), capErr.Cap)

	var count int64
	require.NoError(t, f.db.Model(&domain.Visit{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateVisitStampsOilChange(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Oil change", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	mileage := 45500
	resp, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services:  []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 5000}},
		Mileage:   &mileage,
	})
	require.NoError(t, err)

	var vehicle vehicledomain.Vehicle
	require.NoError(t, f.db.First(&vehicle, "id = ?", f.vehicle.ID).Error)
	require.NotNil(t, vehicle.Mileage)
	require.Equal(t, 45500, *vehicle.Mileage)
	require.NotNil(t, vehicle.LastServiceAt)
	require.True(t, vehicle.LastServiceAt.Equal(resp.Visit.CreatedAt))
	require.NotNil(t, vehicle.LastServiceMileage)
	require.Equal(t, 45500, *vehicle.LastServiceMileage)
}

func TestCreateFlatVisitNeverStamps(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeAutoShop, 10, 5)

	total := int64(8000)
	mileage := 46000
	_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:   f.vehicle.ID.String(),
		CenterID:    center.ID.String(),
		TotalAmount: &total,
		Mileage:     &mileage,
	})
	require.NoError(t, err)

	var vehicle vehicledomain.Vehicle
	require.NoError(t, f.db.First(&vehicle, "id = ?", f.vehicle.ID).Error)
	require.Equal(t, 46000, *vehicle.Mileage)
	require.Nil(t, vehicle.LastServiceAt)
}

func TestCreateVisitUnknownVehicle(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeAutoShop, 10, 5)

	total := int64(1000)
	_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:   f.node.Generate().String(),
		CenterID:    center.ID.String(),
		TotalAmount: &total,
	})
	require.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestGetVisitByID(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	svc := f.createService(t, "Diagnostics", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	created, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID: f.vehicle.ID.String(),
		CenterID:  center.ID.String(),
		Services:  []domain.VisitLineInput{{ServiceID: svc.ID.String(), Price: 10000}},
	})
	require.NoError(t, err)

	detail, err := f.engine.GetByID(context.Background(), domain.GetVisitRequest{ID: created.Visit.ID.String()})
	require.NoError(t, err)
	require.Equal(t, created.Visit.ID, detail.Visit.ID)
	require.Len(t, detail.Services, 1)
	require.Equal(t, "Diagnostics", detail.Services[0].ServiceName)

	_, err = f.engine.GetByID(context.Background(), domain.GetVisitRequest{ID: f.node.Generate().String()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListVisitsByVehicle(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeAutoShop, 10, 5)

	for i := 0; i < 3; i++ {
		total := int64(1000 * (i + 1))
		_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
			VehicleID:   f.vehicle.ID.String(),
			CenterID:    center.ID.String(),
			TotalAmount: &total,
		})
		require.NoError(t, err)
		f.clock.Advance(time.Hour)
	}

	resp, err := f.engine.List(context.Background(), domain.ListVisitRequest{
		VehicleID: f.vehicle.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Total)
	require.Len(t, resp.Visits, 3)
	// Newest first.
	require.Equal(t, int64(3000), resp.Visits[0].Visit.Cost)

	byOwner, err := f.engine.List(context.Background(), domain.ListVisitRequest{
		OwnerID: f.owner.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), byOwner.Total)
}

func TestCreateVisitUnreachableBrokerDoesNotStall(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeAutoShop, 10, 5)

	// A broker that accepts the connection and then never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	pub := events.NewPublisher(config.Config{RedisAddr: ln.Addr().String()}, zap.NewNop())
	t.Cleanup(func() { _ = pub.Close() })

	engine := New(Params{
		DB:           f.db,
		Log:          zap.NewNop(),
		GenID:        f.node,
		Clock:        f.clock,
		Repo:         visitrepo.Provide(),
		CatalogRepo:  catalogrepo.Provide(),
		CenterRepo:   centerrepo.Provide(),
		VehicleRepo:  vehiclerepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		BalanceRepo:  balancerepo.Provide(),
		Publisher:    pub,
	})

	total := int64(10000)
	start := time.Now()
	resp, err := engine.Create(context.Background(), domain.CreateVisitRequest{
		VehicleID:   f.vehicle.ID.String(),
		CenterID:    center.ID.String(),
		TotalAmount: &total,
	})
	require.NoError(t, err)
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, int64(1000), resp.Visit.ServiceFee)
}

func TestCreateVisitRejectsNonPositiveLinePrice(t *testing.T) {
	f := setup(t)
	center := f.createCenter(t, centerdomain.CenterTypeServiceCenter, 0, 0)
	diagnostics := f.createService(t, "Diagnostics", catalogdomain.RuleTypePercent, 20, catalogdomain.RuleTypePercent, 25)

	for _, price := range []int64{0, -5000} {
		_, err := f.engine.Create(context.Background(), domain.CreateVisitRequest{
			VehicleID: f.vehicle.ID.String(),
			CenterID:  center.ID.String(),
			Services: []domain.VisitLineInput{
				{ServiceID: diagnostics.ID.String(), Price: price},
			},
		})
		require.ErrorIs(t, err, domain.ErrInvalidLinePrice)
	}

	// Nothing was written for the rejected requests.
	var count int64
	require.NoError(t, f.db.Model(&domain.Visit{}).Count(&count).Error)
	require.Zero(t, count)
}
