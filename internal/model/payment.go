package model

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed payment_record.schema.json
var paymentRecordSchema string

// ValidatePaymentRecordMap validates a generic map against the embedded
// payment record schema. Used at the API boundary before a record is
// accepted into the history store.
func ValidatePaymentRecordMap(m map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(paymentRecordSchema)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}
