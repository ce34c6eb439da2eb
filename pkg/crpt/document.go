package crpt

// Document type codes accepted by the create endpoint.
const (
	DocTypeLPIntroduceGoods = "LP_INTRODUCE_GOODS"
)

// Document is the "introduce goods" payload. Fields are serialized in the
// API's wire shape; empty fields are omitted.
type Document struct {
	Description    *Description `json:"description,omitempty"`
	DocID          string       `json:"doc_id,omitempty"`
	DocStatus      string       `json:"doc_status,omitempty"`
	DocType        string       `json:"doc_type,omitempty"`
	ImportRequest  bool         `json:"importRequest,omitempty"`
	OwnerInn       string       `json:"owner_inn,omitempty"`
	ParticipantInn string       `json:"participant_inn,omitempty"`
	ProducerInn    string       `json:"producer_inn,omitempty"`
	ProductionDate string       `json:"production_date,omitempty"`
	ProductionType string       `json:"production_type,omitempty"`
	Products       []Product    `json:"products,omitempty"`
	RegDate        string       `json:"reg_date,omitempty"`
	RegNumber      string       `json:"reg_number,omitempty"`
}

// Description identifies the participant a document is filed for.
type Description struct {
	ParticipantInn string `json:"participantInn,omitempty"`
}

// Product is one marked good inside a Document.
type Product struct {
	CertificateDocument       string `json:"certificate_document,omitempty"`
	CertificateDocumentDate   string `json:"certificate_document_date,omitempty"`
	CertificateDocumentNumber string `json:"certificate_document_number,omitempty"`
	OwnerInn                  string `json:"owner_inn,omitempty"`
	ProducerInn               string `json:"producer_inn,omitempty"`
	ProductionDate            string `json:"production_date,omitempty"`
	TnvedCode                 string `json:"tnved_code,omitempty"`
	UitCode                   string `json:"uit_code,omitempty"`
	UituCode                  string `json:"uitu_code,omitempty"`
}
