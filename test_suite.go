package seoblog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DBSeeder interface {
	Seed(document string, data *godog.Table) error
}

// TestSuite drives godog API scenarios against a router in process.
// Values stored from responses can be referenced as {key} in paths and
// table cells.
type TestSuite struct {
	T           *testing.T
	Router      *gin.Engine
	DB          *mongo.Database
	Resp        *http.Response
	RespBody    []byte
	Storage     map[string]string
	RequestBody []byte
	DbSeeders   map[string]DBSeeder

	// BeforeScenario runs ahead of every scenario, typically to reset
	// collections.
	BeforeScenario func()
	// ExtraSteps registers project specific steps.
	ExtraSteps func(ctx *godog.ScenarioContext)
}

type TestLogger struct {
	T *testing.T
}

func NewTestSuite(t *testing.T, router *gin.Engine, db *mongo.Database) *TestSuite {
	return &TestSuite{
		T:         t,
		Router:    router,
		DB:        db,
		Storage:   make(map[string]string),
		DbSeeders: make(map[string]DBSeeder),
	}
}

func (ts *TestSuite) RegisterDBSeeder(document string, seeder DBSeeder) {
	ts.DbSeeders[document] = seeder
}

func (ts *TestSuite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		if ts.Storage == nil {
			ts.Storage = make(map[string]string)
		}
	})
}

func (ts *TestSuite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ts.Resp = nil
		ts.RespBody = nil
		ts.RequestBody = nil
		ts.Storage = make(map[string]string)
		if ts.BeforeScenario != nil {
			ts.BeforeScenario()
		}
		return c, nil
	})

	ctx.Step(`^document "([^"]*)" has the following items$`, ts.documentHasTheFollowingItems)
	ctx.Step(`^document "([^"]*)" should have (\d+) items?$`, ts.documentShouldHaveItems)
	ctx.Step(`^document "([^"]*)" should have (\d+) items? with$`, ts.documentShouldHaveItemsWith)

	ctx.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, ts.iSendARequestTo)
	ctx.Step(`^I send a (POST|PUT) request to "([^"]*)" with body$`, ts.iSendARequestToWithBody)
	ctx.Step(`^I send a (POST|PUT) request to "([^"]*)" with JSON$`, ts.iSendARequestToWithJSON)
	ctx.Step(`^I send a (POST|PUT) multipart request to "([^"]*)" with fields$`, ts.iSendAMultipartRequestTo)
	ctx.Step(`^I send an authenticated (GET|POST|PUT|DELETE) request to "([^"]*)" as "([^"]*)"$`, ts.iSendAnAuthenticatedRequestTo)
	ctx.Step(`^I send an authenticated (POST|PUT) request to "([^"]*)" as "([^"]*)" with body$`, ts.iSendAnAuthenticatedRequestToWithBody)
	ctx.Step(`^I send an authenticated (POST|PUT) multipart request to "([^"]*)" as "([^"]*)" with fields$`, ts.iSendAnAuthenticatedMultipartRequestTo)

	ctx.Step(`^the response status should be (\d+)$`, ts.theResponseStatusShouldBe)
	ctx.Step(`^the response "([^"]*)" field is stored as "([^"]*)"$`, ts.theResponseFieldIsStoredAs)
	ctx.Step(`^the response "([^"]*)" field should be "([^"]*)"$`, ts.theResponseFieldShouldBe)
	ctx.Step(`^the response "([^"]*)" field should have (\d+) items?$`, ts.theResponseFieldShouldHaveItems)
	ctx.Step(`^the response should not contain "([^"]*)"$`, ts.theResponseShouldNotContain)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, ts.theResponseHeaderShouldBe)
	ctx.Step(`^the response should contain an item with$`, ts.theResponseShouldContainAnItemWith)

	if ts.ExtraSteps != nil {
		ts.ExtraSteps(ctx)
	}
}

var storageRef = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// Expand replaces {key} references with stored values.
func (ts *TestSuite) Expand(s string) string {
	return storageRef.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := ts.Storage[ref[1:len(ref)-1]]; ok {
			return v
		}
		return ref
	})
}

// Store saves value under key for later {key} references.
func (ts *TestSuite) Store(key, value string) {
	ts.Storage[key] = value
}

// Do sends a request and keeps the response for the assertion steps.
func (ts *TestSuite) Do(method, path string, body io.Reader, contentType, token string) error {
	req, err := http.NewRequest(method, ts.Expand(path), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	ts.Resp = w.Result()
	defer ts.Resp.Body.Close()
	ts.RespBody, err = io.ReadAll(ts.Resp.Body)
	return err
}

func (ts *TestSuite) token(key string) (string, error) {
	token, ok := ts.Storage[key]
	if !ok {
		return "", fmt.Errorf("no token stored as %q", key)
	}
	return token, nil
}

func (ts *TestSuite) documentHasTheFollowingItems(document string, data *godog.Table) error {
	seeder, ok := ts.DbSeeders[document]
	if !ok {
		return fmt.Errorf("no seeder registered for document %s", document)
	}
	return seeder.Seed(document, ts.expandTable(data))
}

func (ts *TestSuite) documentShouldHaveItems(document string, count int) error {
	return ts.countDocuments(document, bson.M{}, count)
}

func (ts *TestSuite) documentShouldHaveItemsWith(document string, count int, data *godog.Table) error {
	rows, err := ts.tableRows(data)
	if err != nil {
		return err
	}
	filter := bson.M{}
	for k, v := range rows[0] {
		filter[k] = v
	}
	return ts.countDocuments(document, filter, count)
}

func (ts *TestSuite) countDocuments(document string, filter bson.M, count int) error {
	if ts.DB == nil {
		return fmt.Errorf("no database configured")
	}
	n, err := ts.DB.Collection(document).CountDocuments(context.Background(), filter)
	if err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d %s documents, found %d", count, document, n)
	}
	return nil
}

func (ts *TestSuite) iSendARequestTo(method, path string) error {
	ts.RequestBody = nil
	return ts.Do(method, path, nil, "", "")
}

func (ts *TestSuite) iSendARequestToWithBody(method, path string, body *godog.Table) error {
	return ts.sendTable(method, path, body, "")
}

func (ts *TestSuite) iSendARequestToWithJSON(method, path string, doc *godog.DocString) error {
	ts.RequestBody = []byte(ts.Expand(doc.Content))
	return ts.Do(method, path, bytes.NewReader(ts.RequestBody), "application/json", "")
}

func (ts *TestSuite) iSendAMultipartRequestTo(method, path string, fields *godog.Table) error {
	return ts.sendMultipart(method, path, fields, "")
}

func (ts *TestSuite) iSendAnAuthenticatedRequestTo(method, path, tokenKey string) error {
	token, err := ts.token(tokenKey)
	if err != nil {
		return err
	}
	ts.RequestBody = nil
	return ts.Do(method, path, nil, "", token)
}

func (ts *TestSuite) iSendAnAuthenticatedRequestToWithBody(method, path, tokenKey string, body *godog.Table) error {
	token, err := ts.token(tokenKey)
	if err != nil {
		return err
	}
	return ts.sendTable(method, path, body, token)
}

func (ts *TestSuite) iSendAnAuthenticatedMultipartRequestTo(method, path, tokenKey string, fields *godog.Table) error {
	token, err := ts.token(tokenKey)
	if err != nil {
		return err
	}
	return ts.sendMultipart(method, path, fields, token)
}

func (ts *TestSuite) sendTable(method, path string, body *godog.Table, token string) error {
	var err error
	ts.RequestBody, err = ts.parseDataTableToJSON(body)
	if err != nil {
		return err
	}
	return ts.Do(method, path, bytes.NewReader(ts.RequestBody), "application/json", token)
}

// sendMultipart posts a two column table of field/value pairs as a
// multipart form. A value of the form @file:<content-type>:<text> is sent
// as a file part.
func (ts *TestSuite) sendMultipart(method, path string, fields *godog.Table, token string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, row := range fields.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("multipart tables need exactly two columns")
		}
		name, value := row.Cells[0].Value, ts.Expand(row.Cells[1].Value)
		if strings.HasPrefix(value, "@file:") {
			parts := strings.SplitN(strings.TrimPrefix(value, "@file:"), ":", 2)
			if len(parts) != 2 {
				return fmt.Errorf("file values look like @file:<content-type>:<content>")
			}
			if err := writeFilePart(w, name, parts[0], []byte(parts[1])); err != nil {
				return err
			}
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	ts.RequestBody = buf.Bytes()
	return ts.Do(method, path, bytes.NewReader(ts.RequestBody), w.FormDataContentType(), token)
}

func writeFilePart(w *multipart.Writer, field, contentType string, data []byte) error {
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, field)}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

// SendMultipartFile posts fields plus one file part. Custom steps use it
// for binary uploads that do not fit in a table cell.
func (ts *TestSuite) SendMultipartFile(method, path, token string, fields map[string]string, fileField, contentType string, data []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, ts.Expand(v)); err != nil {
			return err
		}
	}
	if err := writeFilePart(w, fileField, contentType, data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return ts.Do(method, path, &buf, w.FormDataContentType(), token)
}

func (ts *TestSuite) theResponseStatusShouldBe(status int) error {
	if ts.Resp == nil {
		return fmt.Errorf("no request was sent")
	}
	if ts.Resp.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, ts.Resp.StatusCode, ts.RespBody)
	}
	return nil
}

// ResponseField resolves a dotted path such as "user.name" or
// "blogs.0.slug" in the JSON response.
func (ts *TestSuite) ResponseField(path string) (interface{}, error) {
	var data interface{}
	if err := json.Unmarshal(ts.RespBody, &data); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s not found in response", path)
			}
			current = value
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index %s out of range in %s", part, path)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("field %s not found in response", path)
		}
	}
	return current, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func (ts *TestSuite) theResponseFieldIsStoredAs(field, key string) error {
	value, err := ts.ResponseField(field)
	if err != nil {
		return err
	}
	ts.Storage[key] = stringify(value)
	return nil
}

func (ts *TestSuite) theResponseFieldShouldBe(field, expected string) error {
	value, err := ts.ResponseField(field)
	if err != nil {
		return err
	}
	expected = ts.Expand(expected)
	if actual := stringify(value); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (ts *TestSuite) theResponseFieldShouldHaveItems(field string, count int) error {
	var value interface{}
	var err error
	if field == "" || field == "." {
		err = json.Unmarshal(ts.RespBody, &value)
	} else {
		value, err = ts.ResponseField(field)
	}
	if err != nil {
		// empty lists are omitted from responses
		if count == 0 {
			return nil
		}
		return err
	}
	items, ok := value.([]interface{})
	if !ok {
		if value == nil && count == 0 {
			return nil
		}
		return fmt.Errorf("%s is not a list", field)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items in %s, got %d", count, field, len(items))
	}
	return nil
}

func (ts *TestSuite) theResponseShouldNotContain(text string) error {
	if bytes.Contains(ts.RespBody, []byte(ts.Expand(text))) {
		return fmt.Errorf("response unexpectedly contains %q", text)
	}
	return nil
}

func (ts *TestSuite) theResponseHeaderShouldBe(header, expected string) error {
	if actual := ts.Resp.Header.Get(header); actual != expected {
		return fmt.Errorf("expected header %s to be %q, got %q", header, expected, actual)
	}
	return nil
}

func (ts *TestSuite) theResponseShouldContainAnItemWith(body *godog.Table) error {
	rows, err := ts.tableRows(body)
	if err != nil {
		return err
	}
	for field, expected := range rows[0] {
		value, err := ts.ResponseField(field)
		if err != nil {
			return err
		}
		if actual := stringify(value); actual != expected {
			return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
		}
	}
	return nil
}

func (ts *TestSuite) tableRows(body *godog.Table) ([]map[string]string, error) {
	if len(body.Rows) < 2 {
		return nil, fmt.Errorf("table must have at least two rows")
	}
	headers := body.Rows[0].Cells
	rows := make([]map[string]string, 0, len(body.Rows)-1)
	for _, row := range body.Rows[1:] {
		data := make(map[string]string, len(row.Cells))
		for j, cell := range row.Cells {
			data[headers[j].Value] = ts.Expand(cell.Value)
		}
		rows = append(rows, data)
	}
	return rows, nil
}

// parseDataTableToJSON encodes the first data row as a JSON object. Cells
// holding a JSON number, boolean, array or object are sent as such.
func (ts *TestSuite) parseDataTableToJSON(body *godog.Table) ([]byte, error) {
	rows, err := ts.tableRows(body)
	if err != nil {
		return nil, err
	}
	data := make(map[string]interface{}, len(rows[0]))
	for k, v := range rows[0] {
		data[k] = jsonCell(v)
	}
	return json.Marshal(data)
}

func jsonCell(v string) interface{} {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return v
	}
	switch trimmed[0] {
	case '{', '[', 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var decoded interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return v
}

func (ts *TestSuite) expandTable(data *godog.Table) *godog.Table {
	if data == nil {
		return nil
	}
	for _, row := range data.Rows {
		for _, cell := range row.Cells {
			cell.Value = ts.Expand(cell.Value)
		}
	}
	return data
}

// GenericDBSeeder inserts table rows as documents built by registered
// constructors. Columns match fields by json or bson tag, or by name.
type GenericDBSeeder struct {
	Constructors map[string]func() interface{}
	DB           *mongo.Database
}

func NewGenericDBSeeder(db *mongo.Database) *GenericDBSeeder {
	return &GenericDBSeeder{
		Constructors: make(map[string]func() interface{}),
		DB:           db,
	}
}

func (gds *GenericDBSeeder) Register(name string, constructor func() interface{}) {
	gds.Constructors[name] = constructor
}

var (
	objectIDType      = reflect.TypeOf(primitive.ObjectID{})
	objectIDSliceType = reflect.TypeOf([]primitive.ObjectID{})
	timeType          = reflect.TypeOf(time.Time{})
)

func (gds *GenericDBSeeder) Seed(document string, data *godog.Table) error {
	constructor, ok := gds.Constructors[document]
	if !ok {
		return fmt.Errorf("no constructor registered for document type: %s", document)
	}

	headers := data.Rows[0].Cells
	for i := 1; i < len(data.Rows); i++ {
		row := data.Rows[i]
		docInstance := constructor()
		val := reflect.ValueOf(docInstance).Elem()

		for j, cell := range row.Cells {
			fieldName := headers[j].Value
			field := lookupField(val, fieldName)
			if !field.IsValid() || !field.CanSet() {
				return fmt.Errorf("could not set field %s for document %s", fieldName, document)
			}
			if err := setField(field, cell.Value); err != nil {
				return fmt.Errorf("field %s: %w", fieldName, err)
			}
		}

		if id := val.FieldByName("ID"); id.IsValid() && id.Type() == objectIDType && id.Interface().(primitive.ObjectID).IsZero() {
			id.Set(reflect.ValueOf(primitive.NewObjectID()))
		}
		if _, err := gds.DB.Collection(document).InsertOne(context.Background(), docInstance); err != nil {
			return err
		}
	}
	return nil
}

func lookupField(val reflect.Value, name string) reflect.Value {
	if field := val.FieldByName(toPascalCase(name)); field.IsValid() {
		return field
	}
	typ := val.Type()
	for k := 0; k < typ.NumField(); k++ {
		structField := typ.Field(k)
		for _, tag := range []string{"json", "bson"} {
			if strings.Split(structField.Tag.Get(tag), ",")[0] == name {
				return val.Field(k)
			}
		}
	}
	return reflect.Value{}
}

func setField(field reflect.Value, value string) error {
	switch field.Type() {
	case objectIDType:
		if value == "" {
			return nil
		}
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(id))
		return nil
	case objectIDSliceType:
		ids := make([]primitive.ObjectID, 0)
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := primitive.ObjectIDFromHex(part)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		field.Set(reflect.ValueOf(ids))
		return nil
	case timeType:
		if value == "" {
			field.Set(reflect.ValueOf(time.Now()))
			return nil
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intVal)
	case reflect.Bool:
		if value == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

func toPascalCase(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (tl *TestLogger) Write(p []byte) (n int, err error) {
	if tl.T != nil {
		tl.T.Logf("%s", p)
	}
	return len(p), nil
}

// RunFeatures runs the feature files under paths and fails t when any
// scenario fails.
func RunFeatures(t *testing.T, suite *TestSuite, paths ...string) {
	suite.T = t
	if len(paths) == 0 {
		paths = []string{"features"}
	}
	opts := godog.Options{
		Format:    "pretty",
		Output:    colors.Colored(&TestLogger{T: t}),
		Paths:     paths,
		Strict:    true,
		Randomize: 0,
	}

	status := godog.TestSuite{
		Name:                 "seoblog",
		TestSuiteInitializer: suite.InitializeTestSuite,
		ScenarioInitializer:  suite.InitializeScenario,
		Options:              &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature scenarios failed with status %d", status)
	}
}
