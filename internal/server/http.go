package server

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strconv"
	"time"

	"github.com/itshubble/hubble-server/internal/auth"
	"github.com/itshubble/hubble-server/internal/conf"
	"github.com/itshubble/hubble-server/internal/service"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Bootstrap, sub *service.SubscriptionService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		// 外层鉴权注入的所有者身份直接信任，此处不再校验凭证
		http.Filter(ownerFilter),
		http.ErrorEncoder(customErrorEncoder),
	}
	if c.Server.Http.Addr != "" {
		opts = append(opts, http.Address(c.Server.Http.Addr))
	}
	if c.Server.Http.Timeout != "" {
		if timeout, err := time.ParseDuration(c.Server.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(timeout))
		}
	}
	srv := http.NewServer(opts...)

	registerRoutes(srv, sub)

	// 注册健康检查端点
	srv.Route("/").GET("/health", func(ctx http.Context) error {
		return ctx.Result(200, map[string]string{
			"service": "hubble-server",
			"status":  "ok",
		})
	})

	return srv
}

// registerRoutes 注册业务路由
func registerRoutes(srv *http.Server, sub *service.SubscriptionService) {
	r := srv.Route("/v1")

	r.POST("/subscriptions", func(ctx http.Context) error {
		var req service.CreateSubscriptionRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := sub.CreateSubscription(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusCreated, reply)
	})

	r.GET("/subscriptions", func(ctx http.Context) error {
		page, limit := pagination(ctx)
		reply, err := sub.ListSubscriptions(ctx, page, limit)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})

	r.GET("/subscriptions/{id}", func(ctx http.Context) error {
		reply, err := sub.GetSubscription(ctx, ctx.Vars().Get("id"))
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})

	r.POST("/subscriptions/{id}/cancel", transitionHandler(sub.CancelSubscription))
	r.POST("/subscriptions/{id}/pause", transitionHandler(sub.PauseSubscription))
	r.POST("/subscriptions/{id}/resume", transitionHandler(sub.ResumeSubscription))
	r.POST("/subscriptions/{id}/halt", transitionHandler(sub.HaltSubscription))
	r.POST("/subscriptions/{id}/resolve", transitionHandler(sub.ResolveSubscription))

	r.POST("/subscriptions/{id}/renews", func(ctx http.Context) error {
		var req service.SetRenewsRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		if err := sub.SetRenews(ctx, ctx.Vars().Get("id"), &req); err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, map[string]bool{"success": true})
	})

	r.GET("/subscriptions/{id}/ledger", func(ctx http.Context) error {
		page, limit := pagination(ctx)
		reply, err := sub.ListLedgerEntries(ctx, ctx.Vars().Get("id"), page, limit)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})

	r.GET("/subscriptions/{id}/history", func(ctx http.Context) error {
		page, limit := pagination(ctx)
		reply, err := sub.GetSubscriptionHistory(ctx, ctx.Vars().Get("id"), page, limit)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})

	r.GET("/plans", func(ctx http.Context) error {
		page, limit := pagination(ctx)
		reply, err := sub.ListPlans(ctx, page, limit)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})

	r.GET("/plans/{id}", func(ctx http.Context) error {
		reply, err := sub.GetPlan(ctx, ctx.Vars().Get("id"))
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})

	r.POST("/sweep", func(ctx http.Context) error {
		var req service.SweepRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := sub.RunSweep(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	})
}

// transitionHandler 状态迁移类路由的通用包装
func transitionHandler(op func(ctx context.Context, id string) (*service.TransitionReply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		reply, err := op(ctx, ctx.Vars().Get("id"))
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, reply)
	}
}

// pagination 解析 page/limit 查询参数
func pagination(ctx http.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.Query().Get("page"))
	limit, _ := strconv.Atoi(ctx.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// ownerFilter 从请求头读取外层鉴权层注入的所有者身份
func ownerFilter(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if ownerID := r.Header.Get("X-Owner-Id"); ownerID != "" {
			ctx := auth.WithOwnerID(r.Context(), ownerID)
			if role := r.Header.Get("X-Owner-Role"); role != "" {
				ctx = auth.WithRole(ctx, auth.Role(role))
			}
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func customErrorEncoder(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	se := kerrors.FromError(err)
	status := stdhttp.StatusInternalServerError
	response := map[string]interface{}{
		"code":    status,
		"message": "internal server error",
	}

	if se != nil {
		status = mapErrorStatus(int(se.Code))
		response["code"] = se.Code
		response["reason"] = se.Reason
		response["message"] = se.Message
		if len(se.Metadata) > 0 {
			response["metadata"] = se.Metadata
		}
	} else if err != nil {
		response["message"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func mapErrorStatus(code int) int {
	if code >= 100 && code < 600 {
		return code
	}
	if code >= 140000 && code < 150000 {
		return stdhttp.StatusBadRequest
	}
	return stdhttp.StatusInternalServerError
}
