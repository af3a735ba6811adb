package datafile

import "strings"

// ParseConnection parses a .connection file. A single TYPE directive
// selects the kafka or s3 grammar branch; every other directive must
// belong to the selected branch.
func ParseConnection(file ResourceFile, strict bool) (Resource, []string, *MigrationError) {
	directives, err := ScanDirectives(file.Content)
	if err != nil {
		return nil, nil, NewParseError(file, "%v", err)
	}

	connType := ConnectionType("")
	for _, d := range directives {
		if d.Keyword != "TYPE" {
			continue
		}
		if connType != "" {
			return nil, nil, NewParseError(file, "line %d: duplicate TYPE directive", d.Line)
		}
		switch strings.ToLower(strings.TrimSpace(unquote(d.Value))) {
		case "kafka":
			connType = ConnectionKafka
		case "s3":
			connType = ConnectionS3
		default:
			return nil, nil, NewParseError(file, "line %d: unknown connection type %q", d.Line, d.Value)
		}
	}
	if connType == "" {
		return nil, nil, NewParseError(file, "missing required TYPE directive")
	}

	if connType == ConnectionKafka {
		return parseKafkaConnection(file, directives, strict)
	}
	return parseS3Connection(file, directives, strict)
}

func parseKafkaConnection(file ResourceFile, directives []Directive, strict bool) (Resource, []string, *MigrationError) {
	model := &KafkaConnectionModel{Name: file.Name, FilePath: file.FilePath}
	var warnings []string

	for _, d := range directives {
		switch d.Keyword {
		case "TYPE":
			// handled above
		case "KAFKA_BOOTSTRAP_SERVERS":
			model.BootstrapServers = unquote(d.Value)
		case "KAFKA_SECURITY_PROTOCOL":
			model.SecurityProtocol = unquote(d.Value)
		case "KAFKA_SASL_MECHANISM":
			model.SASLMechanism = unquote(d.Value)
		case "KAFKA_KEY":
			model.Key = unquote(d.Value)
		case "KAFKA_SECRET":
			model.Secret = unquote(d.Value)
		case "KAFKA_SCHEMA_REGISTRY_URL":
			model.SchemaRegistryURL = unquote(d.Value)
		case "KAFKA_SSL_CA_PEM":
			model.SSLCAPem = directiveText(d)
		default:
			if strict {
				return nil, nil, NewParseError(file, "line %d: unknown directive %q in kafka connection file", d.Line, d.Keyword)
			}
			warnings = append(warnings, unknownDirectiveWarning(file, d))
		}
	}

	if model.BootstrapServers == "" {
		return nil, nil, NewParseError(file, "missing required KAFKA_BOOTSTRAP_SERVERS directive")
	}
	return model, warnings, nil
}

func parseS3Connection(file ResourceFile, directives []Directive, strict bool) (Resource, []string, *MigrationError) {
	model := &S3ConnectionModel{Name: file.Name, FilePath: file.FilePath}
	var warnings []string

	for _, d := range directives {
		switch d.Keyword {
		case "TYPE":
			// handled above
		case "S3_REGION":
			model.Region = unquote(d.Value)
		case "S3_ARN":
			model.ARN = unquote(d.Value)
		case "S3_ACCESS_KEY_ID":
			model.AccessKeyID = unquote(d.Value)
		case "S3_SECRET_ACCESS_KEY":
			model.SecretAccessKey = unquote(d.Value)
		default:
			if strict {
				return nil, nil, NewParseError(file, "line %d: unknown directive %q in s3 connection file", d.Line, d.Keyword)
			}
			warnings = append(warnings, unknownDirectiveWarning(file, d))
		}
	}

	if model.Region == "" && model.ARN == "" {
		return nil, nil, NewParseError(file, "s3 connection requires S3_REGION or S3_ARN")
	}
	return model, warnings, nil
}
