package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/journalbackend/internal/auth"
	"github.com/journalbackend/internal/config"
	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/store"
)

type CompleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

type PendingTasksResponse struct {
	Tasks []models.TaskRecord `json:"tasks"`
	Count int                 `json:"count"`
}

type CompleteTaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

var st *store.Postgres

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, err := extractUserIDFromRequest(request); err != nil {
		return createErrorResponse(401, "UNAUTHORIZED", "Invalid or missing authentication token", err.Error()), nil
	}

	switch request.HTTPMethod {
	case "GET":
		return listPendingTasks(ctx)
	case "POST":
		return completeTask(ctx, request.Body)
	default:
		return createErrorResponse(405, "METHOD_NOT_ALLOWED", "Unsupported method", request.HTTPMethod), nil
	}
}

func listPendingTasks(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	tasks, err := st.PendingTasks(ctx)
	if err != nil {
		return createErrorResponse(500, "STORE_ERROR", "Failed to list pending tasks", err.Error()), nil
	}
	if tasks == nil {
		tasks = []models.TaskRecord{}
	}
	return createJSONResponse(200, PendingTasksResponse{Tasks: tasks, Count: len(tasks)}), nil
}

func completeTask(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var req CompleteTaskRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return createErrorResponse(400, "INVALID_REQUEST", "Invalid JSON in request body", err.Error()), nil
	}
	if req.TaskID == "" {
		return createErrorResponse(400, "VALIDATION_ERROR", "task_id is required", ""), nil
	}

	if err := st.CompleteTask(ctx, req.TaskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return createErrorResponse(404, "NOT_FOUND", "Task not found", req.TaskID), nil
		}
		return createErrorResponse(500, "STORE_ERROR", "Failed to complete task", err.Error()), nil
	}

	return createJSONResponse(200, CompleteTaskResponse{TaskID: req.TaskID, Status: models.TaskStatusCompleted}), nil
}

func extractUserIDFromRequest(request events.APIGatewayProxyRequest) (string, error) {
	authHeader := request.Headers["Authorization"]
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		authHeader = authHeader[7:]
	}

	claims, err := auth.ValidateToken(authHeader)
	if err != nil {
		return "", fmt.Errorf("invalid token: %v", err)
	}
	return claims.UserID, nil
}

func createJSONResponse(statusCode int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		return createErrorResponse(500, "SERIALIZATION_ERROR", "Failed to serialize response", err.Error())
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}

func createErrorResponse(statusCode int, code, message, details string) events.APIGatewayProxyResponse {
	errorResp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	body, _ := json.Marshal(errorResp)
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	st, err = store.Open(cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("Error initializing database: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	lambda.Start(handler)
}
