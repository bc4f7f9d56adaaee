package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAskResponse_successOmitsError(t *testing.T) {
	data, err := json.Marshal(&AskResponse{Success: true, Answer: "18 degrees", Confidence: 0.91})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("success response should omit error: %s", data)
	}
}

func TestNewFailedAskResponse(t *testing.T) {
	resp := NewFailedAskResponse("boom")
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"success":false,"answer":"","confidence":0,"error":"boom"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestAskRequest_decodesPDFPath(t *testing.T) {
	var req AskRequest
	if err := json.Unmarshal([]byte(`{"question":"q","pdf_path":"uploads/a.pdf"}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.PDFPath != "uploads/a.pdf" || req.Context != "" {
		t.Errorf("got %+v", req)
	}
}

func TestAnswerRecord_Succeeded(t *testing.T) {
	if !(&AnswerRecord{Answer: "x"}).Succeeded() {
		t.Error("record without error should be a success")
	}
	if (&AnswerRecord{Error: "bad"}).Succeeded() {
		t.Error("record with error should be a failure")
	}
}
