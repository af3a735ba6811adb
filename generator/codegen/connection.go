package codegen

import (
	"github.com/tinybird-community/tinybird-go/datafile"
)

// WriteKafkaConnection renders one Kafka connection as a constructor
// call bound to ident.
func WriteKafkaConnection(w *Writer, ident string, m *datafile.KafkaConnectionModel) {
	w.Open("var %s = schema.CreateKafkaConnection(schema.KafkaConnection{", ident)
	w.Linef("Name: %s,", GoString(m.Name))
	w.Linef("BootstrapServers: %s,", GoString(m.BootstrapServers))
	if m.SecurityProtocol != "" {
		w.Linef("SecurityProtocol: %s,", GoString(m.SecurityProtocol))
	}
	if m.SASLMechanism != "" {
		w.Linef("SASLMechanism: %s,", GoString(m.SASLMechanism))
	}
	if m.Key != "" {
		w.Linef("Key: %s,", GoString(m.Key))
	}
	if m.Secret != "" {
		w.Linef("Secret: %s,", GoString(m.Secret))
	}
	if m.SchemaRegistryURL != "" {
		w.Linef("SchemaRegistryURL: %s,", GoString(m.SchemaRegistryURL))
	}
	if m.SSLCAPem != "" {
		w.Linef("SSLCAPem: %s,", GoString(m.SSLCAPem))
	}
	w.Close("})")
}

// WriteS3Connection renders one S3 connection as a constructor call
// bound to ident.
func WriteS3Connection(w *Writer, ident string, m *datafile.S3ConnectionModel) {
	w.Open("var %s = schema.CreateS3Connection(schema.S3Connection{", ident)
	w.Linef("Name: %s,", GoString(m.Name))
	if m.Region != "" {
		w.Linef("Region: %s,", GoString(m.Region))
	}
	if m.ARN != "" {
		w.Linef("ARN: %s,", GoString(m.ARN))
	}
	if m.AccessKeyID != "" {
		w.Linef("AccessKeyID: %s,", GoString(m.AccessKeyID))
	}
	if m.SecretAccessKey != "" {
		w.Linef("SecretAccessKey: %s,", GoString(m.SecretAccessKey))
	}
	w.Close("})")
}
