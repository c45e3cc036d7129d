package api

import (
  "encoding/json"
  "net/http"
)

type ResponseHandler struct {
  Writer http.ResponseWriter
}

type JsonResponse struct {
  Success bool        `json:"success"`
  Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
  Success bool   `json:"success"`
  Code    int    `json:"code"`
  Message string `json:"message"`
}

type PagenateResponse struct {
  Success  bool        `json:"success"`
  Data     interface{} `json:"data"`
  Total    int64       `json:"total"`
  Current  int         `json:"current"`
  PageSize int         `json:"page_size"`
}

func (h *ResponseHandler) Json(data interface{}) {
  response := &JsonResponse{
    Success: true,
    Data:    data,
  }
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusOK)
  json.NewEncoder(h.Writer).Encode(response)
}

func (h *ResponseHandler) Error(status int, code int, message string) {
  response := &ErrorResponse{
    Success: false,
    Code:    code,
    Message: message,
  }
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(status)
  json.NewEncoder(h.Writer).Encode(response)
}

func (h *ResponseHandler) Pagenate(data interface{}, total int64, current int, pageSize int) {
  response := &PagenateResponse{
    Success:  true,
    Data:     data,
    Total:    total,
    Current:  current,
    PageSize: pageSize,
  }
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusOK)
  json.NewEncoder(h.Writer).Encode(response)
}
