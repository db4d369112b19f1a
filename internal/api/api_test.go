package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/notebook/internal/apitest"
)

func TestClient_Upload(t *testing.T) {
	server := apitest.New(t)
	client := NewClient(server.URL+"/", 0)

	response, err := client.Upload(context.Background(), "notes.pdf", []byte("%PDF-1.4 hello"))
	require.NoError(t, err)
	require.Equal(t, "notes.pdf", response.Filename)
	require.Equal(t, "Processed", response.Status)
	require.Equal(t, []string{"notes.pdf"}, server.Documents())

	requests := server.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "notes.pdf", requests[0].Filename)
	require.NotEmpty(t, requests[0].RequestID)
}

func TestClient_UploadStatusError(t *testing.T) {
	server := apitest.New(t)
	server.Fail(apitest.Upload, http.StatusUnprocessableEntity, `{"detail":"bad file"}`)
	client := NewClient(server.URL, 0)

	_, err := client.Upload(context.Background(), "notes.pdf", []byte("x"))
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	require.JSONEq(t, `{"detail":"bad file"}`, string(statusErr.Body))
	require.True(t, statusErr.Parsed)
}

func TestClient_UploadStatusErrorWithoutJSONBody(t *testing.T) {
	server := apitest.New(t)
	server.Respond(apitest.Upload, http.StatusBadGateway, `<html>502 Bad Gateway</html>`)
	client := NewClient(server.URL, 0)

	_, err := client.Upload(context.Background(), "notes.pdf", []byte("x"))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.Code)
	require.False(t, statusErr.Parsed)
}

func TestClient_ListDocuments(t *testing.T) {
	server := apitest.New(t, "a.txt", "b.pdf")
	client := NewClient(server.URL, 0)

	documents, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", "b.pdf"}, documents)
}

func TestClient_ListDocumentsMalformed(t *testing.T) {
	server := apitest.New(t)
	server.Respond(apitest.ListDocuments, http.StatusOK, `{"documents":`)
	client := NewClient(server.URL, 0)

	_, err := client.ListDocuments(context.Background())
	require.Error(t, err)
	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestClient_DeleteDocument(t *testing.T) {
	server := apitest.New(t, "a.txt", "my notes.pdf")
	client := NewClient(server.URL, 0)

	require.NoError(t, client.DeleteDocument(context.Background(), "my notes.pdf"))
	require.Equal(t, []string{"a.txt"}, server.Documents())
	require.Equal(t, "my notes.pdf", server.Requests()[0].Filename)
}

func TestClient_DeleteDocumentIgnoresBody(t *testing.T) {
	server := apitest.New(t, "a.txt")
	server.Respond(apitest.DeleteDocument, http.StatusOK, `not json`)
	client := NewClient(server.URL, 0)

	require.NoError(t, client.DeleteDocument(context.Background(), "a.txt"))
}

func TestClient_Chat(t *testing.T) {
	server := apitest.New(t)
	server.SetAnswer(func(query string) string { return "X is Y." })
	client := NewClient(server.URL, 0)

	response, err := client.Chat(context.Background(), &ChatRequest{Query: "What is X?"})
	require.NoError(t, err)
	require.Equal(t, "X is Y.", response.Answer)

	response, err = client.Chat(context.Background(), &ChatRequest{Query: "again", APIKey: "secret"})
	require.NoError(t, err)
	require.Equal(t, "X is Y.", response.Answer)

	requests := server.Requests()
	require.Len(t, requests, 2)
	require.Equal(t, "What is X?", requests[0].Query)
	require.False(t, requests[0].HasAPIKey)
	require.True(t, requests[1].HasAPIKey)
	require.Equal(t, "secret", requests[1].APIKey)
}

func TestClient_TransportFailure(t *testing.T) {
	server := apitest.New(t)
	server.Drop(apitest.Chat)
	client := NewClient(server.URL, 0)

	_, err := client.Chat(context.Background(), &ChatRequest{Query: "q"})
	require.Error(t, err)
	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
}
