package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/coursehub/internal/app/store/metrics"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, db)

	if counts != (metricsstore.Counts{}) {
		t.Errorf("expected all zero counts, got %+v", counts)
	}
}

func TestFetchDashboardCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "html", "HTML", models.CategoryFrontend, 0)
	fixtures.CreateCourse(ctx, "css", "CSS", models.CategoryFrontend, 1)
	fixtures.CreateCourse(ctx, "nodejs", "Node.js", models.CategoryBackend, 2)
	fixtures.CreateCourse(ctx, "roadmap-frontend", "Frontend Roadmap", models.CategoryRoadmap, 3)

	fixtures.CreateEnrollment(ctx, "html", "s1")
	fixtures.CreateEnrollment(ctx, "css", "s1")

	fixtures.CreateContactMessage(ctx, "a@example.com", models.ContactStatusSent)
	fixtures.CreateContactMessage(ctx, "b@example.com", models.ContactStatusRejected)

	counts := metricsstore.FetchDashboardCounts(ctx, db)

	if counts.Courses != 4 {
		t.Errorf("Courses: got %d, want 4", counts.Courses)
	}
	if counts.Categories != 3 {
		t.Errorf("Categories: got %d, want 3", counts.Categories)
	}
	if counts.Roadmaps != 1 {
		t.Errorf("Roadmaps: got %d, want 1", counts.Roadmaps)
	}
	if counts.Enrollments != 2 {
		t.Errorf("Enrollments: got %d, want 2", counts.Enrollments)
	}
	if counts.Messages != 1 {
		t.Errorf("Messages: got %d, want 1 (only sent)", counts.Messages)
	}
}
