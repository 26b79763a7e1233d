package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"movie_review/core/common"
	"movie_review/core/global"
	"movie_review/internal/logger"
)

// Resource type trên media gateway
const (
	MediaResourceImage = "image"
	MediaResourceVideo = "video"
)

// MediaUploadOptions là các tham số tùy chọn khi upload
type MediaUploadOptions struct {
	Folder         string // Thư mục lưu trên gateway
	Transformation string // Chuỗi transformation (ví dụ "c_thumb,g_face,h_500,w_500")
	Responsive     bool   // Yêu cầu gateway sinh các breakpoint responsive cho poster
}

// MediaUploadResult là kết quả upload từ media gateway
type MediaUploadResult struct {
	URL        string   `json:"secure_url"`
	PublicID   string   `json:"public_id"`
	Responsive []string `json:"-"` // URL các breakpoint, lấy từ responsive_breakpoints
}

// MediaGatewayService gọi media gateway (Cloudinary API) để upload và xóa media.
// Mọi request đều được ký bằng api secret theo chuẩn của gateway.
type MediaGatewayService struct {
	client    *fasthttp.Client
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
}

// NewMediaGatewayService tạo mới MediaGatewayService từ cấu hình server
func NewMediaGatewayService() (*MediaGatewayService, error) {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil {
		return nil, fmt.Errorf("failed to create media gateway service: %v", common.ErrConfigNotInitialized)
	}

	return &MediaGatewayService{
		client: &fasthttp.Client{
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		cloudName: cfg.MediaCloudName,
		apiKey:    cfg.MediaAPIKey,
		apiSecret: cfg.MediaAPISecret,
		baseURL:   strings.TrimRight(cfg.MediaBaseURL, "/"),
	}, nil
}

// signParams ký các tham số request theo chuẩn gateway:
// sort theo key, nối thành key=value&..., append api secret rồi SHA1
func (s *MediaGatewayService) signParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

// Upload đẩy một file lên media gateway và trả về URL cùng public ID.
// resourceType là "image" hoặc "video".
func (s *MediaGatewayService) Upload(ctx context.Context, resourceType string, filename string, file io.Reader, opts MediaUploadOptions) (*MediaUploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Các tham số tham gia ký (không gồm file, api_key, resource_type)
	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.Transformation != "" {
		params["transformation"] = opts.Transformation
	}
	if opts.Responsive {
		params["responsive_breakpoints"] = `[{"create_derived":true,"max_width":640,"max_images":3}]`
	}
	signature := s.signParams(params)

	// Build multipart body
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, common.NewError(common.ErrCodeMediaUpload, common.MsgMediaUploadError, common.StatusInternalServerError, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, common.NewError(common.ErrCodeMediaUpload, common.MsgMediaUploadError, common.StatusInternalServerError, err)
	}
	for k, v := range params {
		writer.WriteField(k, v)
	}
	writer.WriteField("api_key", s.apiKey)
	writer.WriteField("signature", signature)
	if err := writer.Close(); err != nil {
		return nil, common.NewError(common.ErrCodeMediaUpload, common.MsgMediaUploadError, common.StatusInternalServerError, err)
	}

	uploadURL := fmt.Sprintf("%s/%s/%s/upload", s.baseURL, s.cloudName, resourceType)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uploadURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(writer.FormDataContentType())
	req.SetBody(body.Bytes())

	if err := s.client.DoTimeout(req, resp, 60*time.Second); err != nil {
		logger.GetAppLogger().WithError(err).WithField("url", uploadURL).Error("❌ Media gateway: upload thất bại")
		return nil, common.NewError(common.ErrCodeMediaUpload, common.MsgMediaUploadError, common.StatusBadGateway, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode(),
			"body":   string(resp.Body()),
		}).Error("❌ Media gateway: upload trả về lỗi")
		return nil, common.NewError(common.ErrCodeMediaUpload, common.MsgMediaUploadError, common.StatusBadGateway, fmt.Errorf("media gateway returned status %d", resp.StatusCode()))
	}

	// Parse response: secure_url, public_id và responsive_breakpoints nếu có
	var raw struct {
		SecureURL             string `json:"secure_url"`
		PublicID              string `json:"public_id"`
		ResponsiveBreakpoints []struct {
			Breakpoints []struct {
				SecureURL string `json:"secure_url"`
			} `json:"breakpoints"`
		} `json:"responsive_breakpoints"`
	}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, common.NewError(common.ErrCodeMediaUpload, common.MsgMediaUploadError, common.StatusBadGateway, err)
	}

	result := &MediaUploadResult{
		URL:      raw.SecureURL,
		PublicID: raw.PublicID,
	}
	for _, group := range raw.ResponsiveBreakpoints {
		for _, bp := range group.Breakpoints {
			result.Responsive = append(result.Responsive, bp.SecureURL)
		}
	}

	return result, nil
}

// Destroy xóa một media asset trên gateway theo public ID.
// Gateway trả về {"result":"ok"} khi xóa thành công; mọi kết quả khác là lỗi
// để caller dừng thao tác đang làm dở (ví dụ saga xóa phim).
func (s *MediaGatewayService) Destroy(ctx context.Context, resourceType string, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	signature := s.signParams(params)

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	for k, v := range params {
		args.Set(k, v)
	}
	args.Set("api_key", s.apiKey)
	args.Set("signature", signature)

	destroyURL := fmt.Sprintf("%s/%s/%s/destroy", s.baseURL, s.cloudName, resourceType)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(destroyURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBody(args.QueryString())

	if err := s.client.DoTimeout(req, resp, 30*time.Second); err != nil {
		logger.GetAppLogger().WithError(err).WithField("public_id", publicID).Error("❌ Media gateway: destroy thất bại")
		return common.NewError(common.ErrCodeMediaDestroy, common.MsgMediaDestroyError, common.StatusBadGateway, err)
	}

	var raw struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return common.NewError(common.ErrCodeMediaDestroy, common.MsgMediaDestroyError, common.StatusBadGateway, err)
	}

	if raw.Result != "ok" {
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"public_id": publicID,
			"result":    raw.Result,
		}).Error("❌ Media gateway: destroy trả về kết quả không hợp lệ")
		return common.NewError(common.ErrCodeMediaDestroy, common.MsgMediaDestroyError, common.StatusBadGateway, fmt.Errorf("media gateway destroy returned %q", raw.Result))
	}

	return nil
}
