package datafile

import (
	"strings"
	"testing"
)

func connectionFile(name, content string) ResourceFile {
	return NewResourceFile(KindConnection, name+".connection", "/ws/"+name+".connection", content)
}

func TestParseKafkaConnection(t *testing.T) {
	content := `TYPE kafka

KAFKA_BOOTSTRAP_SERVERS "broker-1:9092,broker-2:9092"
KAFKA_SECURITY_PROTOCOL "SASL_SSL"
KAFKA_SASL_MECHANISM "PLAIN"
KAFKA_KEY "user"
KAFKA_SECRET "pass"
KAFKA_SCHEMA_REGISTRY_URL "https://registry.example.com"
`
	res, warnings, err := ParseConnection(connectionFile("main_kafka", content), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	model, ok := res.(*KafkaConnectionModel)
	if !ok {
		t.Fatalf("got %T, want *KafkaConnectionModel", res)
	}
	if model.Name != "main_kafka" {
		t.Errorf("Name = %q", model.Name)
	}
	if model.BootstrapServers != "broker-1:9092,broker-2:9092" {
		t.Errorf("BootstrapServers = %q", model.BootstrapServers)
	}
	if model.SecurityProtocol != "SASL_SSL" || model.SASLMechanism != "PLAIN" {
		t.Errorf("model = %+v", model)
	}
	if model.Key != "user" || model.Secret != "pass" {
		t.Errorf("credentials = %q %q", model.Key, model.Secret)
	}
	if model.SchemaRegistryURL != "https://registry.example.com" {
		t.Errorf("SchemaRegistryURL = %q", model.SchemaRegistryURL)
	}
}

func TestParseKafkaConnectionPemBlock(t *testing.T) {
	content := `TYPE kafka
KAFKA_BOOTSTRAP_SERVERS "broker:9092"
KAFKA_SSL_CA_PEM >
    -----BEGIN CERTIFICATE-----
    MIIB
    -----END CERTIFICATE-----
`
	res, _, err := ParseConnection(connectionFile("tls_kafka", content), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model := res.(*KafkaConnectionModel)
	if !strings.Contains(model.SSLCAPem, "BEGIN CERTIFICATE") || !strings.Contains(model.SSLCAPem, "MIIB") {
		t.Errorf("SSLCAPem = %q", model.SSLCAPem)
	}
}

func TestParseS3Connection(t *testing.T) {
	content := `TYPE s3
S3_REGION "eu-west-1"
S3_ARN "arn:aws:iam::123456789:role/tinybird"
S3_ACCESS_KEY_ID "AKIA..."
S3_SECRET_ACCESS_KEY "secret"
`
	res, _, err := ParseConnection(connectionFile("s3_main", content), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model, ok := res.(*S3ConnectionModel)
	if !ok {
		t.Fatalf("got %T, want *S3ConnectionModel", res)
	}
	if model.Region != "eu-west-1" || model.ARN != "arn:aws:iam::123456789:role/tinybird" {
		t.Errorf("model = %+v", model)
	}
}

func TestParseConnectionErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "missing type",
			content: "KAFKA_BOOTSTRAP_SERVERS \"broker:9092\"\n",
			wantMsg: "missing required TYPE",
		},
		{
			name:    "duplicate type",
			content: "TYPE kafka\nTYPE s3\n",
			wantMsg: "duplicate TYPE",
		},
		{
			name:    "unknown type",
			content: "TYPE gcs\n",
			wantMsg: "unknown connection type",
		},
		{
			name:    "kafka without servers",
			content: "TYPE kafka\nKAFKA_SECURITY_PROTOCOL \"PLAINTEXT\"\n",
			wantMsg: "missing required KAFKA_BOOTSTRAP_SERVERS",
		},
		{
			name:    "s3 without region or arn",
			content: "TYPE s3\nS3_ACCESS_KEY_ID \"AKIA\"\n",
			wantMsg: "requires S3_REGION or S3_ARN",
		},
		{
			name:    "kafka directive in s3 branch",
			content: "TYPE s3\nS3_REGION \"eu-west-1\"\nKAFKA_TOPIC \"events\"\n",
			wantMsg: "unknown directive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := ParseConnection(connectionFile("bad", tt.content), true)
			if err == nil {
				t.Fatalf("expected error, got %+v", res)
			}
			if !strings.Contains(err.Message, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Message, tt.wantMsg)
			}
		})
	}
}
