// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sample

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/ginerr"
	"rivaas.dev/envelope/validation"
)

// HandleableMessage is the message of GET /test/handleable.
const HandleableMessage = "sample domain rule violated"

func (s *Server) routes() {
	handle := func(fn func(c *gin.Context) error) gin.HandlerFunc {
		return ginerr.Handle(s.dispatcher, fn)
	}

	form := s.engine.Group("/test/form_error_test")
	form.POST("", handle(s.createForm))
	form.PUT("", handle(s.updateNestedOver))
	form.POST("/registers", handle(s.registerForms))

	param := s.engine.Group("/test/param_error_test")
	param.GET("", handle(s.findByMail))
	param.GET("/path/:id", handle(s.findByID))
	param.GET("/path_query/:id", handle(s.findByIDAndQuery))
	param.PUT("/:id", handle(s.updateMock))

	s.engine.GET("/test/handleable", handle(s.handleable))
	s.engine.GET("/test/system", handle(s.system))
	s.engine.GET("/test/not_found/:id", handle(s.notFound))
}

func (s *Server) createForm(c *gin.Context) error {
	var form Form
	if err := ginerr.BindJSON(c, s.validator, &form); err != nil {
		return err
	}
	c.Status(http.StatusCreated)

	return nil
}

func (s *Server) registerForms(c *gin.Context) error {
	var batch []Form
	if err := ginerr.BindJSON(c, s.validator, &batch); err != nil {
		return err
	}
	s.logger.DebugContext(c.Request.Context(), "forms registered", "count", len(batch))
	c.Status(http.StatusCreated)

	return nil
}

func (s *Server) updateNestedOver(c *gin.Context) error {
	var form NestedOverForm
	if err := ginerr.BindJSON(c, s.validator, &form); err != nil {
		return err
	}
	c.Status(http.StatusCreated)

	return nil
}

func (s *Server) findByMail(c *gin.Context) error {
	mail := validation.QueryParam(c.Request, "mail", "required,email")
	if err := s.validator.Params(c.Request.Context(), mail); err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"mail": mail.Value})

	return nil
}

func (s *Server) findByID(c *gin.Context) error {
	id := validation.PathParam("id", c.Param("id"), "length=:1")
	if err := s.validator.Params(c.Request.Context(), id); err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"id": id.Value})

	return nil
}

func (s *Server) findByIDAndQuery(c *gin.Context) error {
	fuga, err := validation.QueryParam(c.Request, "fuga", "required,max=3").Int()
	if err != nil {
		return err
	}
	err = s.validator.Params(c.Request.Context(),
		validation.PathParam("id", c.Param("id"), "length=:1"),
		validation.QueryParam(c.Request, "hoge", "required,notblank"),
		fuga,
	)
	if err != nil {
		return err
	}
	c.Status(http.StatusOK)

	return nil
}

// updateMock validates the body before any parameter.
func (s *Server) updateMock(c *gin.Context) error {
	var form MockForm
	if err := ginerr.BindJSON(c, s.validator, &form); err != nil {
		return err
	}

	num, err := validation.QueryParam(c.Request, "num", "required,max=1").Int()
	if err != nil {
		return err
	}
	err = s.validator.Params(c.Request.Context(),
		validation.PathParam("id", c.Param("id"), "length=:1"),
		num,
	)
	if err != nil {
		return err
	}
	c.Status(http.StatusCreated)

	return nil
}

func (s *Server) handleable(*gin.Context) error {
	return apierrors.Handleable(HandleableMessage)
}

func (s *Server) system(*gin.Context) error {
	return errors.New("illegal argument")
}

func (s *Server) notFound(c *gin.Context) error {
	return apierrors.NotFound(fmt.Sprintf("resource %s not found", c.Param("id")))
}
