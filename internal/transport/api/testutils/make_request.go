package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
	body    any
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
}

// MakeRequest прогоняет запрос через роутер и возвращает ответ. Тело задается опцией WithJSON.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	options := RequestOptions{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(&options)
	}

	var body io.Reader
	switch b := options.body.(type) {
	case nil:
	case []byte:
		// сырые байты отправляются как есть, например сломанный JSON.
		body = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %s", err.Error())
		}
		body = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(args.Method, args.URL, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)
	return recorder.Result(), nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.headers[name] = value
	}
}

// WithJSON тело запроса. []byte уходит без изменений, остальное сериализуется в JSON.
func WithJSON(body any) func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.body = body
	}
}

// WithBearer добавляет заголовок Authorization. Пустой токен игнорируется.
func WithBearer(token string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		if token != "" {
			o.headers["Authorization"] = "Bearer " + token
		}
	}
}
