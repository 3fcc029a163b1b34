package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/filedrop/dataroom-backend/auth/middleware"
	"github.com/filedrop/dataroom-backend/handlers"
)

func RegisterDataroomRoutes(r *gin.Engine) {
	upload := r.Group("/upload/:endpoint_id")
	upload.GET("/", handlers.UploadPage)
	upload.GET("/qr.png", handlers.UploadQR)
	upload.POST("/ajax/", handlers.AjaxUpload)
	upload.POST("/delete/:file_id/", handlers.DeleteFile)

	staff := upload.Group("")
	staff.Use(middleware.StaffRequired())
	staff.GET("/download-zip/", handlers.DownloadEndpointZip)
	staff.GET("/files/:file_id/download/", handlers.DownloadFile)
}
