package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daynight-rp/dispatch-api/api/handlers"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/databases/mocks"
	"github.com/daynight-rp/dispatch-api/models"
)

// callDBWith returns a call store whose FindOne decodes into c
func callDBWith(c models.Call) (databases.CallDatabase, *mocks.CollectionHelper) {
	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Call)
		**arg = c
	})
	conn := &mocks.CollectionHelper{}
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "calls").Return(conn)
	return databases.NewCallDatabase(db), conn
}

func TestCall_CreateCallHandlerMissingMessage(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/calls/create", strings.NewReader(`{"caller":"Maria"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	c := handlers.Call{LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	if !strings.Contains(rr.Body.String(), models.ErrMissingMessage) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestCall_CreateCallHandlerSuccess(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "calls").Return(conn)

	req, err := http.NewRequest("POST", "/api/calls/create", strings.NewReader(`{"caller":"Maria","message":"10-31 in progress"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	c := handlers.Call{DB: databases.NewCallDatabase(db), LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"status":"pending"`) {
		t.Errorf("a new call must start pending, got %v", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"assigned_to":null`) {
		t.Errorf("a new call must start unassigned, got %v", rr.Body.String())
	}
}

func TestCall_CreateCallHandlerAnonymousCaller(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "calls").Return(conn)

	req, err := http.NewRequest("POST", "/api/calls/create", strings.NewReader(`{"message":"shots fired"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	c := handlers.Call{DB: databases.NewCallDatabase(db), LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"caller":"Anonimo"`) {
		t.Errorf("expected the anonymous caller placeholder, got %v", rr.Body.String())
	}
}

func TestCall_AssignCallHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/calls/asdf/assign", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": "asdf"})
	req = asUser(req, testOfficer())

	c := handlers.Call{LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.AssignCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), models.ErrNotFound) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestCall_AssignCallHandlerNotFound(t *testing.T) {
	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	conn := &mocks.CollectionHelper{}
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "calls").Return(conn)

	req, err := http.NewRequest("POST", "/api/calls/608cafe595eb9dc05379b7f4/assign", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": "608cafe595eb9dc05379b7f4"})
	req = asUser(req, testOfficer())

	c := handlers.Call{DB: databases.NewCallDatabase(db), LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.AssignCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
}

func TestCall_AssignCallHandlerSuccess(t *testing.T) {
	actor := testOfficer()
	callID := primitive.NewObjectID()
	assignee := actor.ID.Hex()

	// the first FindOne returns the pending call, the refetch after the
	// update returns the assigned one
	assigned := models.Call{ID: callID, Caller: "Maria", Message: "10-31", Status: models.CallStatusAssigned, AssignedTo: &assignee}
	callDB, conn := callDBWith(assigned)
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	req, err := http.NewRequest("POST", "/api/calls/"+callID.Hex()+"/assign", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": callID.Hex()})
	req = asUser(req, actor)

	c := handlers.Call{DB: callDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.AssignCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"status":"assigned"`) {
		t.Errorf("expected the call to come back assigned, got %v", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), assignee) {
		t.Errorf("expected the call assigned to the acting user, got %v", rr.Body.String())
	}
}

func TestCall_DeleteCallHandlerForbidden(t *testing.T) {
	other := primitive.NewObjectID().Hex()
	callID := primitive.NewObjectID()
	callDB, _ := callDBWith(models.Call{ID: callID, Status: models.CallStatusAssigned, AssignedTo: &other})

	req, err := http.NewRequest("POST", "/api/calls/"+callID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": callID.Hex()})
	req = asUser(req, testOfficer())

	c := handlers.Call{DB: callDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusForbidden)
	}
	if !strings.Contains(rr.Body.String(), models.ErrUnauthorized) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestCall_DeleteCallHandlerByAssignee(t *testing.T) {
	actor := testOfficer()
	assignee := actor.ID.Hex()
	callID := primitive.NewObjectID()
	callDB, conn := callDBWith(models.Call{ID: callID, Status: models.CallStatusAssigned, AssignedTo: &assignee})
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)

	req, err := http.NewRequest("POST", "/api/calls/"+callID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": callID.Hex()})
	req = asUser(req, actor)

	c := handlers.Call{DB: callDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
}

func TestCall_DeleteCallHandlerByAdmin(t *testing.T) {
	callID := primitive.NewObjectID()
	callDB, conn := callDBWith(models.Call{ID: callID, Status: models.CallStatusPending})
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)

	req, err := http.NewRequest("POST", "/api/calls/"+callID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": callID.Hex()})
	req = asUser(req, testAdmin())

	c := handlers.Call{DB: callDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
}

func TestCall_DeleteCallHandlerGone(t *testing.T) {
	// the call resolves but the delete matches nothing, a concurrent
	// delete won the race
	callID := primitive.NewObjectID()
	callDB, conn := callDBWith(models.Call{ID: callID, Status: models.CallStatusPending})
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), nil)

	req, err := http.NewRequest("POST", "/api/calls/"+callID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"call_id": callID.Hex()})
	req = asUser(req, testAdmin())

	c := handlers.Call{DB: callDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.DeleteCallHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), models.ErrNotFound) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestCall_ListCallsHandlerEmpty(t *testing.T) {
	cursorHelper := &mocks.CursorHelper{}
	cursorHelper.On("Decode", mock.Anything).Return(nil)
	conn := &mocks.CollectionHelper{}
	conn.On("Find", mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "calls").Return(conn)

	req, err := http.NewRequest("GET", "/api/calls", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	c := handlers.Call{DB: databases.NewCallDatabase(db)}
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ListCallsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"calls":[]`) {
		t.Errorf("expected an empty list, not null, got %v", rr.Body.String())
	}
}
