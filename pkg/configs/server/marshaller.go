package server

import (
	"os"

	"gopkg.in/yaml.v3"
)

// load picket server config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *ServerConfig, error:
//
//	When loading success, returns `(*ServerConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (out *ServerConfig, err error) {
	var _out *ServerConfigMarshall
	err = yaml.Unmarshal(conf, &_out)
	if err != nil {
		return nil, err
	}
	out = TrySeal[*ServerConfig](_out)
	return out, nil
}
