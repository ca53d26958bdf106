package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/projeval/projeval/apps/api/echo"
	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/assignment"
	"github.com/projeval/projeval/core/person"
	"github.com/projeval/projeval/core/rubric"
	"github.com/projeval/projeval/core/schedule"
	emailsvc "github.com/projeval/projeval/services/email"
	logsvc "github.com/projeval/projeval/services/logger"
	inmemdb "github.com/projeval/projeval/storage/database/inmem"
)

type testApp struct {
	app         Server
	personSvc   *person.Service
	rubricSvc   *rubric.Service
	scheduleSvc *schedule.Service
	coord       *assignment.Coordinator
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:              "Projeval",
		TestMode:             true,
		DefaultFromEmailAddr: "noreply@localhost",
		Duties: core.DutyConfig{
			EligibleStaffPosts: []string{
				"Chancellor",
				"Vice-Chancellor",
				"Dean",
				"Department Chair/Head",
				"Professor",
				"Associate Professor",
				"Assistant Professor",
			},
			PresentationSubTypes: []string{"proposal", "progress1", "progress2", "final"},
			ReportSubTypes: []string{
				"topicAssessmentForm",
				"projectCharter",
				"statusDocument1",
				"logBook",
				"proposalDocument",
				"statusDocument2",
				"finalThesis",
			},
		},
	}
}

func setup(t *testing.T) testApp {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	conf := testConfig()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))

	alloc := inmemdb.NewIdentifierAllocator(db)
	personRepo := inmemdb.NewPersonRepository(db)
	personSvc := person.NewService(personRepo, alloc)
	rubricSvc := rubric.NewService(inmemdb.NewRubricRepository(db), alloc)
	scheduleSvc := schedule.NewService(inmemdb.NewScheduleRepository(db))
	coord := assignment.NewCoordinator(
		conf.Duties,
		inmemdb.NewAssignmentRepository(db),
		personRepo,
		alloc,
		mailSvc,
		logger,
	)

	app := NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			PersonSvc:      personSvc,
			RubricSvc:      rubricSvc,
			ScheduleSvc:    scheduleSvc,
			Coordinator:    coord,
			DisableReqLogs: true,
		},
	)
	return testApp{
		app:         app,
		personSvc:   personSvc,
		rubricSvc:   rubricSvc,
		scheduleSvc: scheduleSvc,
		coord:       coord,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
