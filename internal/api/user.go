package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetUserInfo fetches the account identity block.
func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	payload, err := c.Call(ctx, "user/get_info.php", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		UserInfo struct {
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
			Premium     string `json:"premium"`
		} `json:"user_info"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding user info: %w", err)}
	}

	return &UserInfo{
		Email:       resp.UserInfo.Email,
		DisplayName: resp.UserInfo.DisplayName,
		Premium:     resp.UserInfo.Premium == "yes",
	}, nil
}

// GetQuota fetches the account's storage usage and limit.
func (c *Client) GetQuota(ctx context.Context) (*Quota, error) {
	payload, err := c.Call(ctx, "user/get_limits.php", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		StorageLimit string `json:"storage_limit"`
		UsedStorage  string `json:"used_storage_size"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding quota response: %w", err)}
	}

	return &Quota{
		Used:  parseWireInt(resp.UsedStorage, "used_storage_size", c.logger),
		Total: parseWireInt(resp.StorageLimit, "storage_limit", c.logger),
	}, nil
}
