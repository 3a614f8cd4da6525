// Package client 提供flownet HTTP API客户端
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LENAX/flownet/pkg/api/dto"
)

// Flownet HTTP API客户端
type Flownet struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建Flownet客户端
func New(baseURL string) *Flownet {
	return &Flownet{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ========== Network API ==========

// ListNetworks 列出所有流网
func (f *Flownet) ListNetworks() (*dto.ListResponse[dto.NetworkSummary], error) {
	var resp dto.APIResponse[dto.ListResponse[dto.NetworkSummary]]
	if err := f.get("/api/v1/networks", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// GetNetwork 获取流网详情
func (f *Flownet) GetNetwork(id string) (*dto.NetworkDetail, error) {
	var resp dto.APIResponse[dto.NetworkDetail]
	if err := f.get("/api/v1/networks/"+id, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// IngestNetwork 摄入段表为新流网
func (f *Flownet) IngestNetwork(req dto.IngestNetworkRequest) (*dto.NetworkSummary, error) {
	var resp dto.APIResponse[dto.NetworkSummary]
	if err := f.post("/api/v1/networks", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// DeleteNetwork 删除流网
func (f *Flownet) DeleteNetwork(id string) error {
	var resp dto.APIResponse[any]
	if err := f.delete("/api/v1/networks/"+id, &resp); err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf(resp.Message)
	}
	return nil
}

// ========== Trace API ==========

// UpstreamTrace 上游溯源查询
func (f *Flownet) UpstreamTrace(networkID, segmentID string, maxDistance float64) (*dto.TraceResponse, error) {
	path := "/api/v1/networks/" + networkID + "/segments/" + segmentID + "/upstream"
	if maxDistance > 0 {
		params := url.Values{}
		params.Set("max_distance", fmt.Sprintf("%g", maxDistance))
		path += "?" + params.Encode()
	}

	var resp dto.APIResponse[dto.TraceResponse]
	if err := f.get(path, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// MainstemTrace 主干溯源查询
func (f *Flownet) MainstemTrace(networkID, segmentID string) (*dto.TraceResponse, error) {
	var resp dto.APIResponse[dto.TraceResponse]
	if err := f.get("/api/v1/networks/"+networkID+"/segments/"+segmentID+"/mainstem", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// DownstreamTrace 下游追踪查询
func (f *Flownet) DownstreamTrace(networkID, segmentID string, includeDiversions bool) (*dto.TraceResponse, error) {
	path := "/api/v1/networks/" + networkID + "/segments/" + segmentID + "/downstream"
	if includeDiversions {
		path += "?include_diversions=true"
	}

	var resp dto.APIResponse[dto.TraceResponse]
	if err := f.get(path, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// Distances 计算全网出口距离表
func (f *Flownet) Distances(networkID string, perComponent bool) (*dto.DistanceResponse, error) {
	path := "/api/v1/networks/" + networkID + "/distances"
	if perComponent {
		path += "?per_component=true"
	}

	var resp dto.APIResponse[dto.DistanceResponse]
	if err := f.get(path, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// ========== Gage API ==========

// RegisterGages 登记站点
func (f *Flownet) RegisterGages(networkID string, req dto.RegisterGagesRequest) (*dto.ListResponse[dto.GageDetail], error) {
	var resp dto.APIResponse[dto.ListResponse[dto.GageDetail]]
	if err := f.post("/api/v1/networks/"+networkID+"/gages", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// ListGages 列出流网的全部站点
func (f *Flownet) ListGages(networkID string) (*dto.ListResponse[dto.GageDetail], error) {
	var resp dto.APIResponse[dto.ListResponse[dto.GageDetail]]
	if err := f.get("/api/v1/networks/"+networkID+"/gages", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// UpstreamGages 查询段上游汇水网络内的站点
func (f *Flownet) UpstreamGages(networkID, segmentID string) (*dto.ListResponse[dto.GageDetail], error) {
	var resp dto.APIResponse[dto.ListResponse[dto.GageDetail]]
	if err := f.get("/api/v1/networks/"+networkID+"/segments/"+segmentID+"/gages", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// GageDistance 计算两个站点的沿网距离
func (f *Flownet) GageDistance(networkID, fromGageID, toGageID string) (*dto.GageDistanceResponse, error) {
	params := url.Values{}
	params.Set("from", fromGageID)
	params.Set("to", toGageID)

	var resp dto.APIResponse[dto.GageDistanceResponse]
	if err := f.get("/api/v1/networks/"+networkID+"/gages/distance?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// ========== Health API ==========

// Health 健康检查
func (f *Flownet) Health() (*dto.HealthResponse, error) {
	var resp dto.APIResponse[dto.HealthResponse]
	if err := f.get("/health", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf(resp.Message)
	}
	return &resp.Data, nil
}

// ========== HTTP Methods ==========

func (f *Flownet) get(path string, result interface{}) error {
	resp, err := f.httpClient.Get(f.baseURL + path)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return f.parseResponse(resp, result)
}

func (f *Flownet) post(path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	resp, err := f.httpClient.Post(f.baseURL+path, "application/json", reqBody)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return f.parseResponse(resp, result)
}

func (f *Flownet) delete(path string, result interface{}) error {
	req, err := http.NewRequest(http.MethodDelete, f.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	return f.parseResponse(resp, result)
}

func (f *Flownet) parseResponse(resp *http.Response, result interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("解析响应失败: %w, body: %s", err, string(body))
	}

	return nil
}
