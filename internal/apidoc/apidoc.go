// Package apidoc はユーザーAPIのOpenAPI 3ドキュメントを生成する。
// ルーティングとリクエスト/レスポンス型の定義に合わせて手動で記述する。
package apidoc

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Info はドキュメントのメタデータ。
type Info struct {
	Title       string
	Description string
	Version     string
}

// DefaultInfo は既定のドキュメントメタデータを返す。
func DefaultInfo() Info {
	return Info{
		Title:       "Users API",
		Description: "A REST API for managing users held in memory",
		Version:     "1.0",
	}
}

const (
	tagUsers  = "users"
	tagHealth = "health"
)

// Build はユーザーAPIのOpenAPIドキュメントを構築する。
func Build(info Info) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Description: info.Description,
			Version:     info.Version,
		},
		Tags: openapi3.Tags{
			{Name: tagUsers},
			{Name: tagHealth},
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"CreateUserDto": openapi3.NewSchemaRef("", createUserSchema()),
				"UpdateUserDto": openapi3.NewSchemaRef("", updateUserSchema()),
				"UserDto":       openapi3.NewSchemaRef("", userSchema()),
				"ErrorResponse": openapi3.NewSchemaRef("", errorSchema()),
				"HealthStatus":  openapi3.NewSchemaRef("", healthSchema()),
			},
		},
		Paths: openapi3.NewPaths(),
	}

	doc.Paths.Set("/users", &openapi3.PathItem{
		Get: operation("listUsers", "Get all users", tagUsers, nil,
			withJSON(http.StatusOK, "List of users", openapi3.NewArraySchema().WithItems(userSchema())),
		),
		Post: operation("createUser", "Create a new user", tagUsers, requestBody("CreateUserDto"),
			withRef(http.StatusCreated, "User created successfully", "UserDto"),
			withRef(http.StatusBadRequest, "Invalid input", "ErrorResponse"),
		),
	})

	update := func(id string) *openapi3.Operation {
		return operation(id, "Update user", tagUsers, requestBody("UpdateUserDto"),
			withRef(http.StatusOK, "User updated successfully", "UserDto"),
			withRef(http.StatusBadRequest, "Invalid input", "ErrorResponse"),
			withRef(http.StatusNotFound, "User not found", "ErrorResponse"),
		)
	}

	byID := &openapi3.PathItem{
		Parameters: openapi3.Parameters{
			{Value: openapi3.NewPathParameter("id").
				WithDescription("User ID").
				WithSchema(openapi3.NewStringSchema())},
		},
		Get: operation("getUser", "Get user by ID", tagUsers, nil,
			withRef(http.StatusOK, "User found", "UserDto"),
			withRef(http.StatusNotFound, "User not found", "ErrorResponse"),
		),
		Patch: update("updateUser"),
		Put:   update("replaceUser"),
		Delete: operation("deleteUser", "Delete user", tagUsers, nil,
			withEmpty(http.StatusNoContent, "User deleted successfully"),
			withRef(http.StatusNotFound, "User not found", "ErrorResponse"),
		),
	}
	doc.Paths.Set("/users/{id}", byID)

	doc.Paths.Set("/health", &openapi3.PathItem{
		Get: operation("health", "Liveness probe", tagHealth, nil,
			withRef(http.StatusOK, "Service is alive", "HealthStatus"),
		),
	})

	return doc
}

type responseOption func(*openapi3.Responses)

func operation(id, summary, tag string, body *openapi3.RequestBodyRef, responses ...responseOption) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		Tags:        []string{tag},
		RequestBody: body,
		Responses:   openapi3.NewResponses(),
	}
	// NewResponsesが追加するdefaultは使わない
	op.Responses.Delete("default")
	for _, opt := range responses {
		opt(op.Responses)
	}
	return op
}

func requestBody(schemaName string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(schemaRef(schemaName)),
	}
}

func withRef(status int, desc, schemaName string) responseOption {
	return func(r *openapi3.Responses) {
		r.Set(statusKey(status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(desc).
				WithJSONSchemaRef(schemaRef(schemaName)),
		})
	}
}

func withJSON(status int, desc string, schema *openapi3.Schema) responseOption {
	return func(r *openapi3.Responses) {
		r.Set(statusKey(status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(desc).
				WithJSONSchema(schema),
		})
	}
}

func withEmpty(status int, desc string) responseOption {
	return func(r *openapi3.Responses) {
		r.Set(statusKey(status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(desc),
		})
	}
}

func schemaRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func statusKey(status int) string {
	switch status {
	case http.StatusOK:
		return "200"
	case http.StatusCreated:
		return "201"
	case http.StatusNoContent:
		return "204"
	case http.StatusBadRequest:
		return "400"
	case http.StatusNotFound:
		return "404"
	default:
		return "default"
	}
}

func stringProp(desc string, example any) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Description = desc
	s.Example = example
	return s
}

func emailProp() *openapi3.Schema {
	s := stringProp("User email address", "john.doe@example.com")
	s.Format = "email"
	return s
}

func nameProp(desc, example string) *openapi3.Schema {
	return stringProp(desc, example).WithMinLength(1)
}

func createUserSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("email", emailProp()).
		WithProperty("firstName", nameProp("User first name", "John")).
		WithProperty("lastName", nameProp("User last name", "Doe")).
		WithRequired([]string{"email", "firstName", "lastName"})
}

func updateUserSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("email", emailProp()).
		WithProperty("firstName", nameProp("User first name", "John")).
		WithProperty("lastName", nameProp("User last name", "Doe"))
}

func userSchema() *openapi3.Schema {
	created := openapi3.NewDateTimeSchema()
	created.Description = "User creation timestamp"
	created.Example = "2024-01-01T00:00:00.000Z"

	updated := openapi3.NewDateTimeSchema()
	updated.Description = "User last update timestamp"
	updated.Example = "2024-01-01T00:00:00.000Z"

	return openapi3.NewObjectSchema().
		WithProperty("id", stringProp("User ID", "1")).
		WithProperty("email", emailProp()).
		WithProperty("firstName", stringProp("User first name", "John")).
		WithProperty("lastName", stringProp("User last name", "Doe")).
		WithProperty("createdAt", created).
		WithProperty("updatedAt", updated).
		WithRequired([]string{"id", "email", "firstName", "lastName", "createdAt", "updatedAt"})
}

func errorSchema() *openapi3.Schema {
	detail := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())

	return openapi3.NewObjectSchema().
		WithProperty("code", stringProp("Error code", "USER_NOT_FOUND")).
		WithProperty("message", stringProp("Error message", "User with ID 1 not found")).
		WithProperty("category", openapi3.NewStringSchema()).
		WithProperty("action", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewArraySchema().WithItems(detail)).
		WithRequired([]string{"code", "message"})
}

func healthSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", stringProp("Liveness status", "ok")).
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithProperty("environment", stringProp("Deployment environment", "development")).
		WithProperty("version", stringProp("Service version", "1.0.0")).
		WithRequired([]string{"status", "timestamp", "environment", "version"})
}
