package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/models"
	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

// Exercises generation against a real MySQL: re-running for the same period
// must return the stored row unchanged, concurrent generators must converge
// on a single snapshot through the unique index, and the monthly batch must
// cover every landlord even when triggered from an authenticated session.
//
// Run (requires Docker): INTEGRATION_TESTS=1 go test ./models -run ObligationGeneration -v
func TestObligationGenerationAgainstMySQL(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "rentals_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	first := setupLandlordWithLease(t, "first-owner@test.local")
	second := setupLandlordWithLease(t, "second-owner@test.local")

	ctx := utils.SetUserIdInContext(context.Background(), first.userId)

	// generating twice for one period returns the stored snapshot
	created, err := models.GenerateObligation(ctx, first.leaseId, 2025, 3)
	if err != nil {
		t.Fatalf("GenerateObligation(first run): %v", err)
	}
	repeated, err := models.GenerateObligation(ctx, first.leaseId, 2025, 3)
	if err != nil {
		t.Fatalf("GenerateObligation(second run): %v", err)
	}
	if created.ID != repeated.ID {
		t.Fatalf("re-run produced a different row: %d vs %d", created.ID, repeated.ID)
	}
	if !created.TotalDue.Equal(repeated.TotalDue) {
		t.Fatalf("re-run changed total due: %s vs %s", created.TotalDue, repeated.TotalDue)
	}
	if n := countObligations(t, first.leaseId, 2025, 3); n != 1 {
		t.Fatalf("stored rows for period = %d, want 1", n)
	}

	// concurrent generators race on the unique index; every caller must end
	// up with the winner's snapshot
	var wg sync.WaitGroup
	ids := make([]int, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			obligation, err := models.GenerateObligation(ctx, first.leaseId, 2025, 4)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = obligation.ID
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent generator %d: %v", i, err)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent generators diverged: %v", ids)
		}
	}
	if n := countObligations(t, first.leaseId, 2025, 4); n != 1 {
		t.Fatalf("stored rows after race = %d, want 1", n)
	}

	// the monthly batch spans all landlords even with a session user set
	results, err := models.GenerateForAllLeases(ctx, 2025, 5)
	if err != nil {
		t.Fatalf("GenerateForAllLeases: %v", err)
	}
	for _, result := range results {
		if result.Status != models.BatchStatusOk {
			t.Fatalf("batch result for lease %d: %s (%s)", result.LeaseId, result.Status, result.Error)
		}
	}
	if n := countObligations(t, first.leaseId, 2025, 5); n != 1 {
		t.Fatalf("batch rows for first landlord = %d, want 1", n)
	}
	if n := countObligations(t, second.leaseId, 2025, 5); n != 1 {
		t.Fatalf("batch rows for second landlord = %d, want 1", n)
	}

	// login writes a revocable session entry and logout removes it, so a
	// logged-out token no longer passes the middleware's redis check
	info, err := models.Login(context.Background(), "first-owner@test.local", "test-password-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, found, err := config.GetRedisValue("Token:" + info.Token); err != nil || !found {
		t.Fatalf("session entry missing after login (found=%v err=%v)", found, err)
	}
	sessionCtx := utils.SetTokenInContext(ctx, info.Token)
	if _, err := models.Logout(sessionCtx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, found, _ := config.GetRedisValue("Token:" + info.Token); found {
		t.Fatal("session entry still present after logout")
	}

	// missing resources surface as the shared not-found sentinel
	if _, _, err := models.PreviewStatement(ctx, 99999,
		utils.YearMonth{Year: 2025, Month: 1}, utils.YearMonth{Year: 2025, Month: 12}, nil); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("PreviewStatement(missing unit) = %v, want record not found", err)
	}
}

type landlordFixture struct {
	userId  int
	leaseId int
}

func setupLandlordWithLease(t *testing.T, email string) landlordFixture {
	t.Helper()

	user, err := models.RegisterUser(context.Background(), &models.NewUser{
		Email:    email,
		Name:     "Owner " + email,
		Password: "test-password-1",
	})
	if err != nil {
		t.Fatalf("RegisterUser(%s): %v", email, err)
	}
	ctx := utils.SetUserIdInContext(context.Background(), user.ID)

	property, err := models.CreateProperty(ctx, &models.NewProperty{Name: "House " + email})
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	unit, err := models.CreateUnit(ctx, &models.NewUnit{PropertyId: property.ID, Label: "1A"})
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	tenant, err := models.CreateTenant(ctx, &models.NewTenant{Name: "Tenant " + email})
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	lease, err := models.CreateLease(ctx, &models.NewLease{
		UnitId:     unit.ID,
		TenantId:   tenant.ID,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount: decimal.NewFromInt(10000),
	})
	if err != nil {
		t.Fatalf("CreateLease: %v", err)
	}
	return landlordFixture{userId: user.ID, leaseId: lease.ID}
}

func countObligations(t *testing.T, leaseId int, year int, month int) int64 {
	t.Helper()
	// counting across landlords needs the owner scope out of the way
	ctx := utils.SetSkipOwnerScopeInContext(context.Background(), true)
	var count int64
	err := config.GetDB().WithContext(ctx).Model(&models.MonthlyObligation{}).
		Where("lease_id = ? AND year = ? AND month = ?", leaseId, year, month).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count obligations: %v", err)
	}
	return count
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("rentals-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("rentals-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=rentals_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
