package handler

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jiujuan/moodjournal-app/internal/db"
	"github.com/jiujuan/moodjournal-app/internal/logger"
	"github.com/jiujuan/moodjournal-app/internal/service"

	_ "golang.org/x/image/webp"
)

// maxUploadSize 限制单个附件大小为 10MB。
const maxUploadSize = 10 << 20

// maxUploadBatch 限制单次批量上传的文件数。
const maxUploadBatch = 5

// allowedMimeTypes 列出允许上传的媒体类型，图片归为 photo，音频归为 voice。
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/mp4":  true,
	"audio/webm": true,
}

// UploadMedia 处理单文件上传：文件落盘后写入附件记录。
// 两步之间不是事务，崩溃可能留下孤儿文件，属于已接受的缺口。
func (a *API) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的文件")
		return
	}

	entryID := strings.TrimSpace(c.PostForm("entryId"))
	if entryID == "" {
		respondError(c, http.StatusBadRequest, "entryId 是必填参数")
		return
	}

	media, err := a.saveUpload(c, file, entryID)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	respondData(c, http.StatusOK, media)
}

// UploadMediaBatch 处理批量上传，单次最多 5 个文件。
func (a *API) UploadMediaBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的上传表单")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, "未找到上传的文件")
		return
	}
	if len(files) > maxUploadBatch {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("单次最多上传 %d 个文件", maxUploadBatch))
		return
	}

	entryID := strings.TrimSpace(c.PostForm("entryId"))
	if entryID == "" {
		respondError(c, http.StatusBadRequest, "entryId 是必填参数")
		return
	}

	uploaded := make([]*db.MediaFile, 0, len(files))
	for _, file := range files {
		media, err := a.saveUpload(c, file, entryID)
		if err != nil {
			handleUploadError(c, err)
			return
		}
		uploaded = append(uploaded, media)
	}

	respondData(c, http.StatusOK, uploaded)
}

// ListEntryMedia 返回条目的全部附件。
func (a *API) ListEntryMedia(c *gin.Context) {
	files, err := a.entries.ListMedia(c.Param("entryId"))
	if err != nil {
		handleEntryError(c, err, "获取附件列表失败")
		return
	}
	respondData(c, http.StatusOK, files)
}

// DeleteMedia 删除附件记录，并尽力清理磁盘文件。
func (a *API) DeleteMedia(c *gin.Context) {
	id := c.Param("id")

	media, err := a.entries.GetMedia(id)
	if err != nil {
		handleEntryError(c, err, "获取附件失败")
		return
	}

	if err := a.entries.DeleteMedia(id); err != nil {
		handleEntryError(c, err, "删除附件失败")
		return
	}

	diskPath := filepath.Join(a.uploadDir, filepath.Base(media.FilePath))
	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		logger.L.Warnw("remove media file failed", "path", diskPath, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

var (
	errUploadType     = errors.New("unsupported upload type")
	errUploadTooLarge = errors.New("upload exceeds size limit")
)

func (a *API) saveUpload(c *gin.Context, file *multipart.FileHeader, entryID string) (*db.MediaFile, error) {
	contentType := file.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		return nil, errUploadType
	}
	if file.Size > maxUploadSize {
		return nil, errUploadTooLarge
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	diskPath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, diskPath); err != nil {
		return nil, fmt.Errorf("save uploaded file: %w", err)
	}

	fileType := db.MediaTypeVoice
	width, height := 0, 0
	if strings.HasPrefix(contentType, "image/") {
		fileType = db.MediaTypePhoto
		width, height = probeImageSize(diskPath)
	}

	media, err := a.entries.AttachMedia(service.MediaInput{
		EntryID:  entryID,
		FilePath: a.uploadURL + "/" + newFilename,
		FileType: fileType,
		FileSize: file.Size,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		// 记录写入失败时回收已落盘的文件
		if removeErr := os.Remove(diskPath); removeErr != nil {
			logger.L.Warnw("cleanup upload failed", "path", diskPath, "error", removeErr)
		}
		return nil, err
	}

	return media, nil
}

// probeImageSize 读出图片尺寸，失败时返回零值，不阻断上传。
func probeImageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUploadType):
		respondError(c, http.StatusBadRequest, "只允许上传图片或音频文件")
	case errors.Is(err, service.ErrMediaOwnerMissing):
		respondError(c, http.StatusBadRequest, "附件指向的条目不存在")
	case errors.Is(err, errUploadTooLarge):
		respondError(c, http.StatusBadRequest, "文件超过大小限制")
	default:
		logger.L.Errorw("upload handler error", "error", err)
		respondError(c, http.StatusInternalServerError, "上传文件失败")
	}
}
