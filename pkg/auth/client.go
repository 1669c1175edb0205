package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	resty "github.com/go-resty/resty/v2"
	"github.com/pebble-dev/devportal/config/configkey"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrUnauthenticated means the auth service rejected the caller's token or
// no token was supplied at all.
var ErrUnauthenticated = errors.New("unauthenticated")

// AccountInfo is what the auth service knows about the caller. Id doubles
// as the developer id everywhere in the portal.
type AccountInfo struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// IClient verifies a caller's token with the auth service and resolves the
// identity behind it. The portal treats the service as opaque.
type IClient interface {
	GetAccount(authorization string) (*AccountInfo, error)
}

type Client struct {
	resty   *resty.Client
	baseURL string
}

func NewClient() *Client {
	return &Client{
		resty:   resty.New(),
		baseURL: viper.GetString(configkey.AuthBaseURL),
	}
}

func (c *Client) GetAccount(authorization string) (*AccountInfo, error) {
	if authorization == "" {
		return nil, ErrUnauthenticated
	}

	resp, err := c.resty.R().
		SetHeader("Authorization", authorization).
		Get(c.baseURL + "/api/v1/me/pebble/appstore")

	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, ErrUnauthenticated
	}

	var accountInfo AccountInfo
	if err := json.Unmarshal(resp.Body(), &accountInfo); err != nil {
		logrus.Error(err)
		return nil, err
	}

	return &accountInfo, nil
}
