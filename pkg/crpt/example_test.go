package crpt_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"crptgate/pkg/crpt"
	"crptgate/pkg/limiter"
)

func ExampleClient_CreateDocument() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":"doc-42"}`))
	}))
	defer srv.Close()

	gate, err := limiter.NewWindowLimiter(time.Second, 10)
	if err != nil {
		panic(err)
	}

	client, err := crpt.NewClient(gate, crpt.WithBaseURL(srv.URL))
	if err != nil {
		panic(err)
	}

	doc := crpt.Document{
		DocType:  crpt.DocTypeLPIntroduceGoods,
		OwnerInn: "1234567890",
		Products: []crpt.Product{{TnvedCode: "6403"}},
	}

	res := client.CreateDocument(context.Background(), doc, "base64-signature")

	fmt.Println(res.Success, res.Message)
	// Output:
	// true document created successfully
}
