package controllers

import (
	"strconv"

	"inkwell/utils"

	"github.com/gin-gonic/gin"
)

// parseID reads an unsigned integer path parameter before any store access.
func parseID(c *gin.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, utils.InvalidInput("Invalid " + label + " ID")
	}
	return uint(id), nil
}
